package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type WaiverController struct {
	Waivers *services.WaiverService
	Exports *services.ExportService
	Audit   *services.AuditService
}

func NewWaiverController(waivers *services.WaiverService, exports *services.ExportService, audit *services.AuditService) *WaiverController {
	return &WaiverController{Waivers: waivers, Exports: exports, Audit: audit}
}

// SubmitWaiver (POST /api/waivers)
func (ctrl *WaiverController) SubmitWaiver(c *gin.Context) {
	var in services.WaiverInput
	if !bindJSON(c, &in) {
		return
	}
	in.IPAddress = c.ClientIP()
	waiver, err := ctrl.Waivers.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Waiver submitted successfully", waiver)
}

func (ctrl *WaiverController) list(c *gin.Context, minor *bool) {
	p := utils.ParsePage(c)
	waivers, total, err := ctrl.Waivers.List(services.WaiverFilter{
		Search:    c.Query("search"),
		BookingID: queryUint(c, "bookingId"),
		Minor:     minor,
	}, p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, waivers, p, total)
}

// ListWaivers (GET /api/admin/waivers?minor=true|false)
func (ctrl *WaiverController) ListWaivers(c *gin.Context) {
	ctrl.list(c, queryBool(c, "minor"))
}

func (ctrl *WaiverController) ListAdultWaivers(c *gin.Context) {
	minor := false
	ctrl.list(c, &minor)
}

func (ctrl *WaiverController) ListMinorWaivers(c *gin.Context) {
	minor := true
	ctrl.list(c, &minor)
}

func (ctrl *WaiverController) GetWaiver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	waiver, err := ctrl.Waivers.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, waiver)
}

type signaturePayload struct {
	Signature string `json:"signature"`
}

// AttachSignature (POST /api/admin/waivers/:id/signature) stores a data URL signature.
func (ctrl *WaiverController) AttachSignature(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in signaturePayload
	if !bindJSON(c, &in) {
		return
	}
	waiver, err := ctrl.Waivers.AttachSignature(c.Request.Context(), id, in.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "Waiver", id,
		&services.AuditDetails{Extra: map[string]interface{}{"signatureUrl": waiver.SignatureURL}})
	utils.JSONMessage(c, http.StatusOK, "Signature saved", waiver)
}

func (ctrl *WaiverController) DeleteWaiver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	waiver, err := ctrl.Waivers.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "Waiver", id,
		&services.AuditDetails{Before: waiver})
	utils.JSONMessage(c, http.StatusOK, "Waiver deleted successfully", nil)
}

func (ctrl *WaiverController) ExportWaivers(c *gin.Context) {
	buf, err := ctrl.Exports.Waivers(services.WaiverFilter{
		BookingID: queryUint(c, "bookingId"),
		Minor:     queryBool(c, "minor"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "waivers", buf.Bytes())
}
