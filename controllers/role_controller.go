package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type RoleController struct {
	Roles *services.RoleService
	Audit *services.AuditService
}

func NewRoleController(roles *services.RoleService, audit *services.AuditService) *RoleController {
	return &RoleController{Roles: roles, Audit: audit}
}

type rolePermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

type roleMemberResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// permissionEntities drives the checkbox matrix on the roles screen.
var permissionEntities = []string{
	"bookings", "parties", "waivers", "vouchers", "cms", "attractions",
	"holidays", "users", "roles", "logs",
}

var permissionActions = []string{"read", "write"}

type roleResponse struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Permissions []string                   `json:"permissions"`
	Matrix      map[string]map[string]bool `json:"matrix"`
	Members     []roleMemberResponse       `json:"members"`
}

// buildMatrix expands grants (including wildcards) to entity -> action -> granted.
func buildMatrix(granted []string) map[string]map[string]bool {
	matrix := make(map[string]map[string]bool, len(permissionEntities))
	for _, entity := range permissionEntities {
		matrix[entity] = map[string]bool{}
		for _, action := range permissionActions {
			matrix[entity][action] = utils.HasPermission(granted, entity+":"+action)
		}
	}
	for _, g := range granted {
		entity, _, ok := strings.Cut(g, ":")
		if ok && entity != "*" {
			if _, known := matrix[entity]; !known {
				matrix[entity] = map[string]bool{}
				for _, action := range permissionActions {
					matrix[entity][action] = utils.HasPermission(granted, entity+":"+action)
				}
			}
		}
	}
	return matrix
}

func toRoleResponse(role models.Role) roleResponse {
	granted := role.PermissionList()
	members := make([]roleMemberResponse, 0, len(role.Members))
	for _, m := range role.Members {
		members = append(members, roleMemberResponse{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	return roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: granted,
		Matrix:      buildMatrix(granted),
		Members:     members,
	}
}

func (ctrl *RoleController) ListRoles(c *gin.Context) {
	roles, err := ctrl.Roles.List()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *RoleController) GetRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	role, err := ctrl.Roles.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, toRoleResponse(*role))
}

// UpdateRolePermissions (PUT /api/admin/roles/:id/permissions) replaces every grant.
func (ctrl *RoleController) UpdateRolePermissions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in rolePermissionsPayload
	if !bindJSON(c, &in) {
		return
	}
	before, after, err := ctrl.Roles.SetPermissions(id, in.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditUpdate, "Role", id,
		&services.AuditDetails{Extra: map[string]interface{}{
			"before": before.PermissionList(),
			"after":  after.PermissionList(),
		}})
	utils.JSONMessage(c, http.StatusOK, "Permissions updated successfully", toRoleResponse(*after))
}
