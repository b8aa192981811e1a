package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type SettingsController struct {
	Settings *services.SettingsService
	Audit    *services.AuditService
}

func NewSettingsController(settings *services.SettingsService, audit *services.AuditService) *SettingsController {
	return &SettingsController{Settings: settings, Audit: audit}
}

// GetSettings (GET /api/settings)
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	settings, err := ctrl.Settings.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, settings)
}

// UpdateSettings (PUT /api/admin/settings)
func (ctrl *SettingsController) UpdateSettings(c *gin.Context) {
	var in services.SettingsInput
	if !bindJSON(c, &in) {
		return
	}
	actor := middleware.Actor(c)
	before, after, err := ctrl.Settings.Update(in, actor.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), actor, models.AuditUpdate, "GlobalSettings", after.ID,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Settings updated successfully", after)
}
