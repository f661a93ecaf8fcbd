package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/realtime"
	"github.com/assetflow/asset-movement/utils"
)

type CommentController struct {
	DB *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{DB: db}
}

// GetCommentsByRequest -> thread in chronological order
func (cc *CommentController) GetCommentsByRequest(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("request_id"))

	var comments []models.RequestComment
	if err := cc.DB.Preload("User").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Comments for request", comments)
}

// CreateComment -> immutable remark; notifies the requester when someone
// else comments on their request
func (cc *CommentController) CreateComment(c *gin.Context) {
	requestID, _ := strconv.Atoi(c.Param("request_id"))

	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var request models.AssetRequest
	if err := cc.DB.First(&request, requestID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}

	comment := models.RequestComment{
		RequestID: request.ID,
		UserID:    userID,
		UserRole:  currentRole(c),
		Comment:   body.Comment,
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if request.RequesterID == userID {
			return nil
		}
		link := fmt.Sprintf("/requests/%d", request.ID)
		notif := models.Notification{
			UserID:  request.RequesterID,
			Title:   "New Comment",
			Message: fmt.Sprintf("A new comment was added to request %s.", request.ReferenceCode),
			Type:    models.NotificationTypeRequest,
			Link:    &link,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}

	realtime.BroadcastCommentCreate(comment)
	utils.RespondJSON(c, http.StatusCreated, "Comment added", comment)
}
