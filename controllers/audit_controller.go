package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

// ListLogs (GET /api/admin/logs?action=&entity=&adminId=)
func (ctrl *AuditController) ListLogs(c *gin.Context) {
	p := utils.ParsePage(c)
	logs, total, err := ctrl.Audit.List(services.AuditFilter{
		Action:  strings.ToUpper(c.Query("action")),
		Entity:  c.Query("entity"),
		AdminID: queryUint(c, "adminId"),
	}, p)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, logs, p, total)
}
