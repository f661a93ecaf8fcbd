package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
)

// openTestDB opens a named shared in-memory database so every connection
// in the pool sees the same data, and migrates the full schema.
func openTestDB(name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Department{},
		&models.Asset{},
		&models.AssetRequest{},
		&models.Approval{},
		&models.SecurityVerification{},
		&models.Notification{},
		&models.RequestComment{},
		&models.RequestAttachment{},
		&models.AssetMovement{},
		&models.SchedulerLock{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

type workflowFixture struct {
	Branch     models.Branch
	Department models.Department
	Admin      models.User
	Head       models.User
	ICT        models.User
	Security   models.User
	Staff      models.User
	Asset      models.Asset
}

// seedWorkflow creates one branch, one department with a head, one user per
// role and one available asset assigned to the staff member's department.
func seedWorkflow(db *gorm.DB) workflowFixture {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	branch := models.Branch{Name: "Head Office", Location: "Jakarta"}
	db.Create(&branch)

	makeUser := func(name, username, role string) models.User {
		user := models.User{
			Name:     name,
			Username: username,
			Email:    username + "@example.com",
			Password: string(hash),
			Role:     role,
			BranchID: &branch.ID,
		}
		db.Create(&user)
		return user
	}

	admin := makeUser("Admin", "admin", models.RoleAdmin)
	head := makeUser("Dept Head", "head", models.RoleDepartmentHead)
	ict := makeUser("ICT Officer", "ict", models.RoleICT)
	security := makeUser("Gate Security", "security", models.RoleSecurity)

	department := models.Department{Name: "Finance", HeadID: &head.ID}
	db.Create(&department)

	db.Model(&head).Update("department_id", department.ID)
	head.DepartmentID = &department.ID

	staff := makeUser("Staff Member", "staff", models.RoleStaff)
	db.Model(&staff).Update("department_id", department.ID)
	staff.DepartmentID = &department.ID

	asset := models.Asset{
		Name:         "Dell Latitude 5440",
		Type:         "laptop",
		SerialNumber: "SN-0001",
		TagNumber:    "IT-0001",
		Condition:    "good",
		Status:       models.AssetStatusAvailable,
		BranchID:     &branch.ID,
		DepartmentID: &department.ID,
	}
	db.Create(&asset)

	return workflowFixture{
		Branch:     branch,
		Department: department,
		Admin:      admin,
		Head:       head,
		ICT:        ict,
		Security:   security,
		Staff:      staff,
		Asset:      asset,
	}
}

// asUser stands in for the auth middleware so handlers see a signed-in
// viewer without running the JWT stack.
func asUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Next()
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date literal %q: %v", value, err)
	}
	return parsed
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return envelope
}
