package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/realtime"
	"github.com/assetflow/asset-movement/services"
	"github.com/assetflow/asset-movement/utils"
)

type SecurityController struct {
	DB      *gorm.DB
	Service *services.SecurityService
}

func NewSecurityController(db *gorm.DB) *SecurityController {
	return &SecurityController{DB: db, Service: services.NewSecurityService(db)}
}

// CreateVerification -> open a pending checkpoint sign-off for a request
func (sc *SecurityController) CreateVerification(c *gin.Context) {
	var body struct {
		RequestID        uint   `json:"request_id" binding:"required"`
		VerificationType string `json:"verification_type" binding:"required"` // outgoing | incoming
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	verification, err := sc.Service.CreateVerification(body.RequestID, body.VerificationType)
	if err != nil {
		if utils.IsPreconditionError(err) {
			utils.RespondError(c, http.StatusPreconditionFailed, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastVerificationUpdate(*verification)
	utils.RespondJSON(c, http.StatusCreated, "Verification created", verification)
}

// Verify -> record the guard sign-off and its side effects
func (sc *SecurityController) Verify(c *gin.Context) {
	verificationID, _ := strconv.Atoi(c.Param("verification_id"))

	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		FloorGuardName      string `json:"floor_guard_name" binding:"required"`
		FloorGuardSignature string `json:"floor_guard_signature" binding:"required"`
		GateGuardName       string `json:"gate_guard_name" binding:"required"`
		GateGuardSignature  string `json:"gate_guard_signature" binding:"required"`
		Notes               string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	verification, err := sc.Service.Verify(services.VerifyInput{
		VerificationID:      uint(verificationID),
		VerifierID:          userID,
		FloorGuardName:      body.FloorGuardName,
		FloorGuardSignature: body.FloorGuardSignature,
		GateGuardName:       body.GateGuardName,
		GateGuardSignature:  body.GateGuardSignature,
		Notes:               body.Notes,
	})
	if err != nil {
		if utils.IsPreconditionError(err) {
			utils.RespondError(c, http.StatusPreconditionFailed, err)
			return
		}
		utils.ErrorLogger.Printf("Verify sign-off %d failed: %v", verificationID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastVerificationUpdate(*verification)

	var request models.AssetRequest
	if err := sc.DB.First(&request, verification.RequestID).Error; err == nil {
		realtime.BroadcastRequestUpdate(request)
	}

	utils.InfoLogger.Printf("Verification %d recorded by user %d", verification.ID, userID)
	utils.RespondJSON(c, http.StatusOK, "Verification recorded", verification)
}

// GetVerificationsByRequest -> sign-off history for one request
func (sc *SecurityController) GetVerificationsByRequest(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("request_id"))

	var verifications []models.SecurityVerification
	if err := sc.DB.Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&verifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Verifications for request", verifications)
}
