package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type CalendarController struct {
	Calendar *services.CalendarService
	Audit    *services.AuditService
}

func NewCalendarController(calendar *services.CalendarService, audit *services.AuditService) *CalendarController {
	return &CalendarController{Calendar: calendar, Audit: audit}
}

// CheckAvailability (GET /api/availability?date=YYYY-MM-DD&time=HH:MM)
func (ctrl *CalendarController) CheckAvailability(c *gin.Context) {
	avail, err := ctrl.Calendar.CheckAvailability(c.Query("date"), c.Query("time"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, avail)
}

// ListBlocks (GET /api/admin/calendar/blocks?from=&to=); the public calendar uses it too.
func (ctrl *CalendarController) ListBlocks(c *gin.Context) {
	blocks, err := ctrl.Calendar.ListBlocks(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, blocks)
}

func (ctrl *CalendarController) GetBlock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	block, err := ctrl.Calendar.GetBlock(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, block)
}

func (ctrl *CalendarController) CreateBlock(c *gin.Context) {
	var in services.BlockInput
	if !bindJSON(c, &in) {
		return
	}
	block, err := ctrl.Calendar.CreateBlock(in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, "BookingBlock", block.ID,
		&services.AuditDetails{After: block})
	utils.JSONMessage(c, http.StatusCreated, "Date blocked successfully", block)
}

func (ctrl *CalendarController) UpdateBlock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.BlockInput
	if !bindJSON(c, &in) {
		return
	}
	before, err := ctrl.Calendar.GetBlock(id)
	if err != nil {
		respondError(c, err)
		return
	}
	block, err := ctrl.Calendar.UpdateBlock(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "BookingBlock", id,
		&services.AuditDetails{Before: before, After: block})
	utils.JSONMessage(c, http.StatusOK, "Block updated successfully", block)
}

func (ctrl *CalendarController) DeleteBlock(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.Calendar.DeleteBlock(id); err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "BookingBlock", id, nil)
	utils.JSONMessage(c, http.StatusOK, "Block removed successfully", nil)
}
