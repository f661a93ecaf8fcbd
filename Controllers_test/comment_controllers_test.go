package Controllers_test

import (
	"bytes"
	"encoding/json"
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

func setupCommentRouter(db *gorm.DB, viewer models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	commentCtrl := controllers.NewCommentController(db)
	authed := router.Group("/", asUser(viewer))
	authed.GET("/requests/:request_id/comments", commentCtrl.GetCommentsByRequest)
	authed.POST("/requests/:request_id/comments", commentCtrl.CreateComment)
	return router
}

func postComment(t *testing.T, router *gin.Engine, requestID uint, text string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"comment": text})
	req, _ := http.NewRequest("POST", fmt.Sprintf("/requests/%d/comments", requestID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCommentThread(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("comment_thread")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	rec := postComment(t, setupCommentRouter(db, fixture.Staff), request.ID, "Needed for the Friday deployment.")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = postComment(t, setupCommentRouter(db, fixture.Head), request.ID, "Please return it by Monday.")
	assert.Equal(t, http.StatusCreated, rec.Code)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/requests/%d/comments", request.ID), nil)
	rec = httptest.NewRecorder()
	setupCommentRouter(db, fixture.Staff).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].([]interface{})
	assert.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Needed for the Friday deployment.", first["comment"])
	assert.Equal(t, models.RoleStaff, first["user_role"])
}

func TestCommentByReviewerNotifiesRequester(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("comment_notify")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	rec := postComment(t, setupCommentRouter(db, fixture.Head), request.ID, "Please return it by Monday.")
	assert.Equal(t, http.StatusCreated, rec.Code)

	var notif models.Notification
	err := db.Where("user_id = ? AND title = ?", fixture.Staff.ID, "New Comment").First(&notif).Error
	assert.NoError(t, err)

	// A requester commenting on their own request does not self-notify.
	rec = postComment(t, setupCommentRouter(db, fixture.Staff), request.ID, "Will do.")
	assert.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND title = ?", fixture.Staff.ID, "New Comment").
		Count(&count)
	assert.Equal(t, int64(1), count)
}
