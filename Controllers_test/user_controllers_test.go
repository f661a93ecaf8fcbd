package Controllers_test

import (
	"bytes"
	"encoding/json"
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

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("user_register")
	router := setupUserRouter(db)

	rec := postJSON(t, router, "/register", map[string]interface{}{
		"name":     "Test Staff",
		"username": "TestStaff",
		"email":    "teststaff@example.com",
		"password": "password123",
		"role":     models.RoleStaff,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Usernames are stored lowercased.
	var user models.User
	assert.NoError(t, db.Where("username = ?", "teststaff").First(&user).Error)
	assert.Equal(t, models.RoleStaff, user.Role)
	assert.NotEqual(t, "password123", user.Password)

	rec = postJSON(t, router, "/login", map[string]interface{}{
		"username": "teststaff",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, models.RoleStaff, data["user_role"])

	rec = postJSON(t, router, "/login", map[string]interface{}{
		"username": "teststaff",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("user_badrole")
	router := setupUserRouter(db)

	rec := postJSON(t, router, "/register", map[string]interface{}{
		"name":     "Nobody",
		"username": "nobody",
		"email":    "nobody@example.com",
		"password": "password123",
		"role":     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
