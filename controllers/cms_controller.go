package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

// ContentController serves one CMS collection.
type ContentController[T any] struct {
	Content *services.ContentService[T]
	Audit   *services.AuditService
	// Entity names the collection in audit records.
	Entity string
}

func NewContentController[T any](content *services.ContentService[T], audit *services.AuditService, entity string) *ContentController[T] {
	return &ContentController[T]{Content: content, Audit: audit, Entity: entity}
}

func (ctrl *ContentController[T]) filters(c *gin.Context) map[string]string {
	out := map[string]string{}
	for _, key := range ctrl.Content.Filters {
		if v := c.Query(key); v != "" {
			out[key] = v
		}
	}
	return out
}

// rowID reads the "id" field of a CMS row.
func rowID(row interface{}) uint {
	raw, err := json.Marshal(row)
	if err != nil {
		return 0
	}
	var v struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(raw, &v)
	return v.ID
}

// ListPublic returns active rows in display order.
func (ctrl *ContentController[T]) ListPublic(c *gin.Context) {
	rows, err := ctrl.Content.ListActive(ctrl.filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

func (ctrl *ContentController[T]) GetBySlug(c *gin.Context) {
	row, err := ctrl.Content.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, row)
}

func (ctrl *ContentController[T]) List(c *gin.Context) {
	p := utils.ParsePage(c)
	rows, total, err := ctrl.Content.List(ctrl.filters(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, rows, p, total)
}

func (ctrl *ContentController[T]) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	row, err := ctrl.Content.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, row)
}

func (ctrl *ContentController[T]) Create(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	row, err := ctrl.Content.Create(body)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, ctrl.Entity, rowID(row),
		&services.AuditDetails{After: row})
	utils.JSONMessage(c, http.StatusCreated, "Created successfully", row)
}

func (ctrl *ContentController[T]) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	before, after, err := ctrl.Content.Update(id, body)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, ctrl.Entity, id,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Updated successfully", after)
}

func (ctrl *ContentController[T]) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	row, err := ctrl.Content.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, ctrl.Entity, id,
		&services.AuditDetails{Before: row})
	utils.JSONMessage(c, http.StatusOK, "Deleted successfully", nil)
}

type reorderPayload struct {
	IDs []uint `json:"ids"`
}

// Reorder (PUT /:kind/reorder) sets display order to the position in ids.
func (ctrl *ContentController[T]) Reorder(c *gin.Context) {
	var in reorderPayload
	if !bindJSON(c, &in) {
		return
	}
	if err := ctrl.Content.Reorder(in.IDs); err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, ctrl.Entity, 0,
		&services.AuditDetails{Extra: map[string]interface{}{"order": in.IDs}})
	utils.JSONMessage(c, http.StatusOK, "Order updated successfully", nil)
}
