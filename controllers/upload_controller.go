package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/utils"
)

type UploadController struct {
	Uploads *services.UploadService
	Audit   *services.AuditService
}

func NewUploadController(uploads *services.UploadService, audit *services.AuditService) *UploadController {
	return &UploadController{Uploads: uploads, Audit: audit}
}

// Upload (POST /api/admin/uploads) takes multipart field "file" and optional "folder".
func (ctrl *UploadController) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.Uploads.MaxBytes+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	f, err := header.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unable to read uploaded file")
		return
	}
	defer f.Close()

	folder := c.PostForm("folder")
	if folder == "" {
		folder = "cms"
	}
	result, err := ctrl.Uploads.Upload(c.Request.Context(), folder, f, header.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditCreate, "Upload", 0,
		&services.AuditDetails{Extra: map[string]interface{}{"key": result.Key, "filename": header.Filename}})
	utils.JSONMessage(c, http.StatusCreated, "File uploaded successfully", result)
}

type deleteUploadPayload struct {
	Key string `json:"key"`
}

func (ctrl *UploadController) DeleteUpload(c *gin.Context) {
	var in deleteUploadPayload
	if !bindJSON(c, &in) {
		return
	}
	if err := ctrl.Uploads.Delete(c.Request.Context(), in.Key); err != nil {
		respondError(c, err)
		return
	}
	ctrl.Audit.Record(c.Request.Context(), middleware.Actor(c), models.AuditDelete, "Upload", 0,
		&services.AuditDetails{Extra: map[string]interface{}{"key": in.Key}})
	utils.JSONMessage(c, http.StatusOK, "File deleted successfully", nil)
}
