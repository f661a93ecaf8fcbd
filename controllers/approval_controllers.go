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

type ApprovalController struct {
	DB      *gorm.DB
	Service *services.RequestService
}

func NewApprovalController(db *gorm.DB) *ApprovalController {
	return &ApprovalController{DB: db, Service: services.NewRequestService(db)}
}

// GetApprovalsByRequest -> the approval set for one request
func (ac *ApprovalController) GetApprovalsByRequest(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("request_id"))

	var approvals []models.Approval
	if err := ac.DB.Preload("Approver").
		Where("request_id = ?", requestID).
		Find(&approvals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Approvals for request", approvals)
}

// GetPendingApprovals -> open approvals matching the viewer's role
func (ac *ApprovalController) GetPendingApprovals(c *gin.Context) {
	role := currentRole(c)

	query := ac.DB.Where("status = ?", models.ApprovalStatusPending)
	if role != models.RoleAdmin {
		query = query.Where("approver_role = ?", role)
	}

	var approvals []models.Approval
	if err := query.Order("created_at ASC").Find(&approvals).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending approvals", approvals)
}

// ResolveApproval -> approve or reject one approval row. The role guard
// and the derived request status update happen inside the service
// transaction.
func (ac *ApprovalController) ResolveApproval(c *gin.Context) {
	approvalID, _ := strconv.Atoi(c.Param("approval_id"))

	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		Decision string `json:"decision" binding:"required"` // approve | reject
		Comment  string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Decision != "approve" && body.Decision != "reject" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("decision must be approve or reject"))
		return
	}

	approval, err := ac.Service.ResolveApproval(services.ResolveApprovalInput{
		ApprovalID: uint(approvalID),
		ReviewerID: userID,
		Reviewer:   currentRole(c),
		Approve:    body.Decision == "approve",
		Comment:    body.Comment,
	})
	if err != nil {
		if utils.IsPreconditionError(err) {
			utils.RespondError(c, http.StatusForbidden, err)
			return
		}
		utils.ErrorLogger.Printf("Resolve approval %d failed: %v", approvalID, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastApprovalUpdate(*approval)

	var request models.AssetRequest
	if err := ac.DB.Preload("Approvals").First(&request, approval.RequestID).Error; err == nil {
		realtime.BroadcastRequestUpdate(request)
	}

	utils.InfoLogger.Printf("Approval %d resolved as %s by user %d", approval.ID, approval.Status, userID)
	utils.RespondJSON(c, http.StatusOK, "Approval updated", approval)
}
