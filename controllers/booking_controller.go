package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type BookingController struct {
	Bookings *services.BookingService
	Exports  *services.ExportService
	Audit    *services.AuditService
}

func NewBookingController(bookings *services.BookingService, exports *services.ExportService, audit *services.AuditService) *BookingController {
	return &BookingController{Bookings: bookings, Exports: exports, Audit: audit}
}

// CreateBooking (POST /api/bookings)
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var in services.BookingInput
	if !bindJSON(c, &in) {
		return
	}
	booking, err := ctrl.Bookings.CreateSession(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Booking created successfully", booking)
}

// CreatePartyBooking (POST /api/bookings/party)
func (ctrl *BookingController) CreatePartyBooking(c *gin.Context) {
	var in services.PartyBookingInput
	if !bindJSON(c, &in) {
		return
	}
	booking, err := ctrl.Bookings.CreateParty(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONMessage(c, http.StatusCreated, "Party booking request received", booking)
}

// QuoteBooking (POST /api/bookings/quote) prices a session without saving it.
func (ctrl *BookingController) QuoteBooking(c *gin.Context) {
	var in services.BookingInput
	if !bindJSON(c, &in) {
		return
	}
	quote, err := ctrl.Bookings.Quote(in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

// GetBookingByReference (GET /api/bookings/reference/:ref) lets the waiver
// kiosk find a booking. Only non-sensitive fields are returned.
func (ctrl *BookingController) GetBookingByReference(c *gin.Context) {
	b, err := ctrl.Bookings.GetByReference(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"id":           b.ID,
		"reference":    b.Reference,
		"name":         b.Name,
		"date":         b.Date,
		"time":         b.Time,
		"guests":       b.Guests(),
		"waiverStatus": b.WaiverStatus,
	})
}

func bookingFilter(c *gin.Context) services.BookingFilter {
	return services.BookingFilter{
		Search:        c.Query("search"),
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		WaiverStatus:  c.Query("waiverStatus"),
		Type:          c.Query("type"),
		Date:          c.Query("date"),
		From:          c.Query("from"),
		To:            c.Query("to"),
	}
}

// ListBookings (GET /api/admin/bookings)
func (ctrl *BookingController) ListBookings(c *gin.Context) {
	p := utils.ParsePage(c)
	bookings, total, err := ctrl.Bookings.List(bookingFilter(c), p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, bookings, p, total)
}

func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := ctrl.Bookings.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CreateManualBooking (POST /api/admin/bookings)
func (ctrl *BookingController) CreateManualBooking(c *gin.Context) {
	var in services.ManualBookingInput
	if !bindJSON(c, &in) {
		return
	}
	booking, err := ctrl.Bookings.CreateManual(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, "Booking", booking.ID,
		&services.AuditDetails{After: booking, Extra: map[string]interface{}{"summary": services.DescribeBooking(*booking)}})
	utils.JSONMessage(c, http.StatusCreated, "Booking created successfully", booking)
}

func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.BookingUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	before, after, err := ctrl.Bookings.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "Booking", id,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Booking updated successfully", after)
}

// UpdateBookingStatus (PATCH /api/admin/bookings/:id/status)
func (ctrl *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.StatusInput
	if !bindJSON(c, &in) {
		return
	}
	before, after, err := ctrl.Bookings.UpdateStatus(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	action := models.AuditUpdate
	switch after.BookingStatus {
	case before.BookingStatus:
	case models.BookingStatusConfirmed:
		action = models.AuditApprove
	case models.BookingStatusCancelled:
		action = models.AuditReject
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), action, "Booking", id,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Booking status updated", after)
}

func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := ctrl.Bookings.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "Booking", id,
		&services.AuditDetails{Before: booking})
	utils.JSONMessage(c, http.StatusOK, "Booking deleted successfully", nil)
}

// Dashboard (GET /api/admin/dashboard)
func (ctrl *BookingController) Dashboard(c *gin.Context) {
	stats, err := ctrl.Bookings.Dashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// ExportBookings (GET /api/admin/bookings/export) streams an XLSX workbook.
func (ctrl *BookingController) ExportBookings(c *gin.Context) {
	buf, err := ctrl.Exports.Bookings(bookingFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "bookings", buf.Bytes())
}

func sendWorkbook(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, services.XLSXContentType, data)
}
