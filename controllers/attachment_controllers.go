package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

const (
	maxDocumentSize = 30 << 20 // justification documents
	maxPhotoSize    = 10 << 20 // asset condition photos
	uploadDir       = "public/uploads"
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

type AttachmentController struct {
	DB *gorm.DB
}

func NewAttachmentController(db *gorm.DB) *AttachmentController {
	return &AttachmentController{DB: db}
}

// Upload -> store a justification document or condition photo for a request.
// The file lands under public/uploads with a generated name and is served
// back through the static /uploads route.
func (ac *AttachmentController) Upload(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("request_id"))

	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var request models.AssetRequest
	if err := ac.DB.First(&request, requestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("file type %s is not allowed", ext))
		return
	}

	limit := int64(maxDocumentSize)
	if c.PostForm("kind") == "photo" {
		limit = maxPhotoSize
	}
	if file.Size > limit {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("file exceeds the %dMB limit", limit>>20))
		return
	}

	storedName := uuid.New().String() + ext
	destination := filepath.Join(uploadDir, storedName)
	if err := c.SaveUploadedFile(file, destination); err != nil {
		utils.ErrorLogger.Printf("Saving upload for request %d failed: %v", requestID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to store file"))
		return
	}

	attachment := models.RequestAttachment{
		RequestID:  request.ID,
		FileURL:    "/uploads/" + storedName,
		FileName:   file.Filename,
		FileType:   file.Header.Get("Content-Type"),
		FileSize:   file.Size,
		UploadedBy: userID,
	}
	if err := ac.DB.Create(&attachment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}

	utils.InfoLogger.Printf("Attachment %s uploaded for request %s", attachment.FileName, request.ReferenceCode)
	utils.RespondJSON(c, http.StatusCreated, "Attachment uploaded", attachment)
}

// GetAttachmentsByRequest -> newest first
func (ac *AttachmentController) GetAttachmentsByRequest(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("request_id"))

	var attachments []models.RequestAttachment
	if err := ac.DB.Where("request_id = ?", requestID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Attachments for request", attachments)
}
