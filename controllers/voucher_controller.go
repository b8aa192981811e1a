package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type VoucherController struct {
	Vouchers *services.VoucherService
	Exports  *services.ExportService
	Audit    *services.AuditService
}

func NewVoucherController(vouchers *services.VoucherService, exports *services.ExportService, audit *services.AuditService) *VoucherController {
	return &VoucherController{Vouchers: vouchers, Exports: exports, Audit: audit}
}

type validateVoucherPayload struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"orderAmount"`
}

// ValidateVoucher (POST /api/vouchers/validate). The result body is returned
// as-is so the booking form can read discount, type and value directly.
func (ctrl *VoucherController) ValidateVoucher(c *gin.Context) {
	var in validateVoucherPayload
	if !bindJSON(c, &in) {
		return
	}
	result, err := ctrl.Vouchers.Validate(in.Code, in.OrderAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctrl *VoucherController) ListVouchers(c *gin.Context) {
	p := utils.ParsePage(c)
	vouchers, total, err := ctrl.Vouchers.List(services.VoucherFilter{
		Search: c.Query("search"),
		Active: queryBool(c, "active"),
	}, p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, vouchers, p, total)
}

func (ctrl *VoucherController) GetVoucher(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	v, err := ctrl.Vouchers.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, v)
}

func (ctrl *VoucherController) CreateVoucher(c *gin.Context) {
	var in services.VoucherInput
	if !bindJSON(c, &in) {
		return
	}
	v, err := ctrl.Vouchers.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, "Voucher", v.ID,
		&services.AuditDetails{After: v})
	utils.JSONMessage(c, http.StatusCreated, "Voucher created successfully", v)
}

func (ctrl *VoucherController) UpdateVoucher(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.VoucherInput
	if !bindJSON(c, &in) {
		return
	}
	before, after, err := ctrl.Vouchers.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "Voucher", id,
		&services.AuditDetails{Before: before, After: after})
	utils.JSONMessage(c, http.StatusOK, "Voucher updated successfully", after)
}

func (ctrl *VoucherController) DeleteVoucher(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	v, err := ctrl.Vouchers.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "Voucher", id,
		&services.AuditDetails{Before: v})
	utils.JSONMessage(c, http.StatusOK, "Voucher deleted successfully", nil)
}

func (ctrl *VoucherController) VoucherStats(c *gin.Context) {
	stats, err := ctrl.Vouchers.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

func (ctrl *VoucherController) ExportVouchers(c *gin.Context) {
	buf, err := ctrl.Exports.Vouchers()
	if err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "vouchers", buf.Bytes())
}
