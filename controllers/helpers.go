package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/logger"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

// maxBodyBytes bounds JSON bodies read by hand (CMS create/update).
const maxBodyBytes = 1 << 20

// respondError maps service errors onto HTTP responses. Unexpected errors
// are logged and reported as 500 without detail.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		fields := make([]utils.FieldError, 0, len(verr.Keys()))
		for _, k := range verr.Keys() {
			fields = append(fields, utils.FieldError{Field: k, Message: verr.Fields[k]})
		}
		utils.JSONValidation(c, fields)
		return
	}

	var rerr *services.RuleError
	if errors.As(err, &rerr) {
		utils.JSONError(c, statusFor(rerr.Kind), rerr.Message)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrDuplicate):
		utils.JSONError(c, http.StatusConflict, "A record with these details already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrInvalidToken):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, services.ErrAccountDisabled):
		utils.JSONError(c, http.StatusForbidden, "Account is disabled")
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request")
	default:
		logger.L().Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func statusFor(kind error) int {
	switch kind {
	case services.ErrNotFound:
		return http.StatusNotFound
	case services.ErrDuplicate, services.ErrUnavailable:
		return http.StatusConflict
	case services.ErrForbidden:
		return http.StatusForbidden
	case services.ErrInvalidCredentials, services.ErrInvalidToken:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// paramID parses :id, answering 400 itself when it is not a positive integer.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// queryUint returns nil when the query parameter is absent or malformed.
func queryUint(c *gin.Context, key string) *uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	id := uint(v)
	return &id
}

func queryBool(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

func paginated(c *gin.Context, data interface{}, p utils.PageParams, total int64) {
	utils.JSONPaginated(c, data, utils.NewPageMeta(p, total))
}
