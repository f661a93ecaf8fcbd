package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/realtime"
	"github.com/assetflow/asset-movement/services"
	"github.com/assetflow/asset-movement/utils"
)

const minPurposeLength = 10

type RequestController struct {
	DB      *gorm.DB
	Service *services.RequestService
}

func NewRequestController(db *gorm.DB) *RequestController {
	return &RequestController{DB: db, Service: services.NewRequestService(db)}
}

// CreateRequest -> submit a movement request; fans out two approvals and
// the department head notification in one transaction.
func (rc *RequestController) CreateRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type reqBody struct {
		AssetID         uint   `json:"asset_id" binding:"required"`
		RequesterType   string `json:"requester_type"`
		Purpose         string `json:"purpose" binding:"required"`
		PurposeCategory string `json:"purpose_category" binding:"required"`
		Justification   string `json:"justification" binding:"required"`
		StartDate       string `json:"start_date" binding:"required"` // 2006-01-02
		EndDate         string `json:"end_date" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("start_date must be formatted as YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must be formatted as YYYY-MM-DD"))
		return
	}
	if err := validateRequestFields(body.Purpose, body.PurposeCategory, body.Justification, startDate, endDate); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	request, err := rc.Service.CreateRequest(services.CreateRequestInput{
		AssetID:         body.AssetID,
		RequesterID:     userID,
		RequesterType:   body.RequesterType,
		Purpose:         body.Purpose,
		PurposeCategory: body.PurposeCategory,
		Justification:   body.Justification,
		StartDate:       startDate,
		EndDate:         endDate,
	})
	if err != nil {
		utils.ErrorLogger.Printf("Create request failed for user %d: %v", userID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastRequestCreate(*request)
	utils.InfoLogger.Printf("Request %s created by user %d", request.ReferenceCode, userID)
	utils.RespondJSON(c, http.StatusCreated, "Request created", request)
}

func validateRequestFields(purpose, category, justification string, startDate, endDate time.Time) error {
	if !endDate.After(startDate) {
		return errors.New("end date must be after start date")
	}
	if len(strings.TrimSpace(purpose)) < minPurposeLength {
		return errors.New("purpose must be at least 10 characters")
	}
	parsed, err := url.ParseRequestURI(justification)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.New("justification must be a resolvable document URL")
	}
	for _, allowed := range models.PurposeCategories {
		if category == allowed {
			return nil
		}
	}
	return errors.New("unknown purpose category")
}

// GetMyRequests -> the viewer's own requests, newest first
func (rc *RequestController) GetMyRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var requests []models.AssetRequest
	if err := rc.DB.Preload("Asset").Preload("Approvals").
		Where("requester_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of requests", requests)
}

// GetAllRequests -> reviewer/admin listing with optional filters
func (rc *RequestController) GetAllRequests(c *gin.Context) {
	query := rc.DB.Preload("Asset").Preload("Requester").Preload("Approvals")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if department := c.Query("department_id"); department != "" {
		query = query.Where("department_id = ?", department)
	}
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	var requests []models.AssetRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of requests", requests)
}

// GetRequestByID -> full aggregate: asset, approvals, security sign-offs,
// comments, attachments and movement trail
func (rc *RequestController) GetRequestByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("request_id"))

	var request models.AssetRequest
	if err := rc.DB.
		Preload("Asset").
		Preload("Requester").
		Preload("Approvals").
		Preload("SecurityVerifications").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Attachments").
		Preload("Movements").
		First(&request, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Request detail", request)
}

// CancelRequest -> pending only; 412 otherwise. Only the requester (or an
// admin) may withdraw a request.
func (rc *RequestController) CancelRequest(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("request_id"))

	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var existing models.AssetRequest
	if err := rc.DB.First(&existing, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}
	if existing.RequesterID != userID && currentRole(c) != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, errors.New("request belongs to another user"))
		return
	}

	request, err := rc.Service.CancelRequest(uint(id))
	if err != nil {
		if utils.IsPreconditionError(err) {
			utils.RespondError(c, http.StatusPreconditionFailed, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastRequestUpdate(*request)
	utils.InfoLogger.Printf("Request %s cancelled", request.ReferenceCode)
	utils.RespondJSON(c, http.StatusOK, "Request cancelled", request)
}

// DuplicateRequest -> fresh pending copy with new approvals
func (rc *RequestController) DuplicateRequest(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("request_id"))

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	// Body is optional; dates default to today..today+7d.
	_ = c.ShouldBindJSON(&body)

	var startDate, endDate *time.Time
	if body.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", body.StartDate)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("start_date must be formatted as YYYY-MM-DD"))
			return
		}
		startDate = &parsed
	}
	if body.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must be formatted as YYYY-MM-DD"))
			return
		}
		endDate = &parsed
	}

	duplicate, err := rc.Service.DuplicateRequest(uint(id), startDate, endDate)
	if err != nil {
		if utils.IsPreconditionError(err) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastRequestCreate(*duplicate)
	utils.RespondJSON(c, http.StatusCreated, "Request duplicated", duplicate)
}
