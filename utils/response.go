package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is one entry of a 422 response body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONMessage(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func JSONPaginated(c *gin.Context, data interface{}, meta PageMeta) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "meta": meta})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func JSONValidation(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"error":   "Validation failed",
		"errors":  errs,
	})
}
