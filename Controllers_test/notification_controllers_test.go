package Controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/controllers"
	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

func setupNotificationRouter(db *gorm.DB, viewer models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	notifCtrl := controllers.NewNotificationController(db)
	authed := router.Group("/", asUser(viewer))
	authed.GET("/notifications", notifCtrl.GetMyNotifications)
	authed.GET("/notifications/unread-count", notifCtrl.GetUnreadCount)
	authed.PATCH("/notifications/:notif_id/read", notifCtrl.MarkAsRead)
	authed.PATCH("/notifications/read-all", notifCtrl.MarkAllRead)
	return router
}

func seedNotifications(db *gorm.DB, userID uint, count int) []models.Notification {
	notifs := make([]models.Notification, 0, count)
	for i := 0; i < count; i++ {
		notif := models.Notification{
			UserID:  userID,
			Title:   fmt.Sprintf("Reminder %d", i+1),
			Message: "Asset return is coming up.",
			Type:    models.NotificationTypeSystem,
		}
		db.Create(&notif)
		notifs = append(notifs, notif)
	}
	return notifs
}

func TestNotificationsScopedToViewer(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("notif_scope")
	fixture := seedWorkflow(db)
	seedNotifications(db, fixture.Staff.ID, 3)
	seedNotifications(db, fixture.Head.ID, 1)

	req, _ := http.NewRequest("GET", "/notifications", nil)
	rec := httptest.NewRecorder()
	setupNotificationRouter(db, fixture.Staff).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].([]interface{})
	assert.Len(t, data, 3)
	for _, raw := range data {
		row := raw.(map[string]interface{})
		assert.Equal(t, float64(fixture.Staff.ID), row["user_id"])
	}
}

func TestUnreadCountAndMarkAsRead(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("notif_read")
	fixture := seedWorkflow(db)
	notifs := seedNotifications(db, fixture.Staff.ID, 2)

	router := setupNotificationRouter(db, fixture.Staff)

	req, _ := http.NewRequest("GET", "/notifications/unread-count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])

	req, _ = http.NewRequest("PATCH", fmt.Sprintf("/notifications/%d/read", notifs[0].ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req, _ = http.NewRequest("GET", "/notifications/unread-count", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	data = decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	// Unread filter only returns the remaining one.
	req, _ = http.NewRequest("GET", "/notifications?unread=true", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	unread := decodeEnvelope(t, rec)["data"].([]interface{})
	assert.Len(t, unread, 1)
}

func TestMarkAsReadRejectsForeignNotification(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("notif_foreign")
	fixture := seedWorkflow(db)
	notifs := seedNotifications(db, fixture.Staff.ID, 1)

	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/notifications/%d/read", notifs[0].ID), nil)
	rec := httptest.NewRecorder()
	setupNotificationRouter(db, fixture.Head).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var notif models.Notification
	assert.NoError(t, db.First(&notif, notifs[0].ID).Error)
	assert.False(t, notif.Read)
}

func TestMarkAllRead(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("notif_all")
	fixture := seedWorkflow(db)
	seedNotifications(db, fixture.Staff.ID, 4)

	router := setupNotificationRouter(db, fixture.Staff)

	req, _ := http.NewRequest("PATCH", "/notifications/read-all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", fixture.Staff.ID, false).
		Count(&count)
	assert.Equal(t, int64(0), count)
}
