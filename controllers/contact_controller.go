package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type ContactController struct {
	Contact *services.ContactService
	Audit   *services.AuditService
}

func NewContactController(contact *services.ContactService, audit *services.AuditService) *ContactController {
	return &ContactController{Contact: contact, Audit: audit}
}

// SubmitContact (POST /api/contact)
func (ctrl *ContactController) SubmitContact(c *gin.Context) {
	var in services.ContactInput
	if !bindJSON(c, &in) {
		return
	}
	msg, err := ctrl.Contact.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Thank you! We will get back to you soon.", gin.H{"id": msg.ID})
}

func (ctrl *ContactController) ListMessages(c *gin.Context) {
	p := utils.ParsePage(c)
	unread := c.Query("unread") == "true"
	msgs, total, err := ctrl.Contact.List(unread, p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, msgs, p, total)
}

func (ctrl *ContactController) GetMessage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	msg, err := ctrl.Contact.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, msg)
}

type markReadPayload struct {
	IsRead *bool `json:"isRead"`
}

// MarkRead (PATCH /api/admin/contact-messages/:id/read). An empty body marks it read.
func (ctrl *ContactController) MarkRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in markReadPayload
	_ = c.ShouldBindJSON(&in)
	read := in.IsRead == nil || *in.IsRead
	msg, err := ctrl.Contact.MarkRead(id, read)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, msg)
}

func (ctrl *ContactController) DeleteMessage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	msg, err := ctrl.Contact.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "ContactMessage", id,
		&services.AuditDetails{Before: msg})
	utils.JSONMessage(c, http.StatusOK, "Message deleted successfully", nil)
}
