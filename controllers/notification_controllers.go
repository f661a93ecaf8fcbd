package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/realtime"
	"github.com/assetflow/asset-movement/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> the viewer's notifications, newest first
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	query := nc.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifs []models.Notification
	if err := query.Order("created_at DESC").Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// GetUnreadCount -> badge count for the notification bell
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var count int64
	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

// MarkAsRead -> the only mutation notifications support
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, _ := strconv.Atoi(c.Param("notif_id"))

	var notif models.Notification
	if err := nc.DB.First(&notif, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.MapStoreError(err))
		return
	}
	if notif.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("notification belongs to another user"))
		return
	}

	if err := nc.DB.Model(&notif).Update("is_read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllRead -> clear the viewer's unread badge in one update
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	if err := nc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}

// CreateNotification -> manual notification to one user (admin tooling)
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		UserID  uint    `json:"user_id" binding:"required"`
		Title   string  `json:"title" binding:"required"`
		Message string  `json:"message" binding:"required"`
		Type    string  `json:"type"`
		Link    *string `json:"link"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notifType := body.Type
	if notifType == "" {
		notifType = models.NotificationTypeSystem
	}

	notif := models.Notification{
		UserID:  body.UserID,
		Title:   body.Title,
		Message: body.Message,
		Type:    notifType,
		Link:    body.Link,
	}
	if err := nc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, utils.MapStoreError(err))
		return
	}

	realtime.BroadcastNotification(notif)
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}
