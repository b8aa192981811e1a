package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type AdminUserController struct {
	Admins *services.AdminUserService
	Audit  *services.AuditService
}

func NewAdminUserController(admins *services.AdminUserService, audit *services.AuditService) *AdminUserController {
	return &AdminUserController{Admins: admins, Audit: audit}
}

func actorID(c *gin.Context) uint {
	if admin := middleware.CurrentAdmin(c); admin != nil {
		return admin.ID
	}
	return 0
}

func (ctrl *AdminUserController) ListAdmins(c *gin.Context) {
	p := utils.ParsePage(c)
	admins, total, err := ctrl.Admins.List(p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, admins, p, total)
}

func (ctrl *AdminUserController) GetAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	admin, err := ctrl.Admins.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admin)
}

// CreateAdmin (POST /api/admin/users) also emails the new admin an invite.
func (ctrl *AdminUserController) CreateAdmin(c *gin.Context) {
	var in services.AdminUserInput
	if !bindJSON(c, &in) {
		return
	}
	admin, err := ctrl.Admins.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, "AdminUser", admin.ID,
		&services.AuditDetails{After: admin})
	utils.JSONMessage(c, http.StatusCreated, "Admin user created successfully", admin)
}

func (ctrl *AdminUserController) UpdateAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.AdminUserInput
	if !bindJSON(c, &in) {
		return
	}
	before, after, err := ctrl.Admins.Update(id, actorID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "AdminUser", id,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Admin user updated successfully", after)
}

// ToggleAdmin (PATCH /api/admin/users/:id/toggle)
func (ctrl *AdminUserController) ToggleAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	admin, err := ctrl.Admins.Toggle(id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "AdminUser", id,
		&services.AuditDetails{Extra: map[string]interface{}{"isActive": admin.IsActive}})
	utils.JSONSuccess(c, http.StatusOK, admin)
}

func (ctrl *AdminUserController) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	admin, err := ctrl.Admins.Delete(id, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "AdminUser", id,
		&services.AuditDetails{Before: admin})
	utils.JSONMessage(c, http.StatusOK, "Admin user deleted successfully", nil)
}

func (ctrl *AdminUserController) AdminStats(c *gin.Context) {
	stats, err := ctrl.Admins.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
