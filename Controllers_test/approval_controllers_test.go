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
	"github.com/assetflow/asset-movement/services"
	"github.com/assetflow/asset-movement/utils"
)

func setupApprovalRouter(db *gorm.DB, viewer models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	approvalCtrl := controllers.NewApprovalController(db)
	authed := router.Group("/", asUser(viewer))
	authed.GET("/approvals/pending", approvalCtrl.GetPendingApprovals)
	authed.PATCH("/approvals/:approval_id", approvalCtrl.ResolveApproval)
	authed.GET("/requests/:request_id/approvals", approvalCtrl.GetApprovalsByRequest)
	return router
}

// submitRequest goes through the service so every test starts from the same
// fan-out state the create endpoint produces.
func submitRequest(t *testing.T, db *gorm.DB, fixture workflowFixture) models.AssetRequest {
	t.Helper()
	request, err := services.NewRequestService(db).CreateRequest(services.CreateRequestInput{
		AssetID:         fixture.Asset.ID,
		RequesterID:     fixture.Staff.ID,
		Purpose:         "Client site deployment support",
		PurposeCategory: "work",
		Justification:   "https://intranet.example.com/docs/req-1",
		StartDate:       mustDate(t, "2024-01-01"),
		EndDate:         mustDate(t, "2024-01-08"),
	})
	assert.NoError(t, err)
	return *request
}

func approvalForRole(t *testing.T, db *gorm.DB, requestID uint, role string) models.Approval {
	t.Helper()
	var approval models.Approval
	err := db.Where("request_id = ? AND approver_role = ?", requestID, role).First(&approval).Error
	assert.NoError(t, err)
	return approval
}

func resolve(t *testing.T, router *gin.Engine, approvalID uint, decision, comment string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]interface{}{"decision": decision, "comment": comment})
	req, _ := http.NewRequest("PATCH", fmt.Sprintf("/approvals/%d", approvalID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSingleApprovalLeavesRequestPending(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("appr_single")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	headApproval := approvalForRole(t, db, request.ID, models.RoleDepartmentHead)
	router := setupApprovalRouter(db, fixture.Head)

	rec := resolve(t, router, headApproval.ID, "approve", "ok")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, db.First(&headApproval, headApproval.ID).Error)
	assert.Equal(t, models.ApprovalStatusApproved, headApproval.Status)
	assert.Equal(t, "ok", headApproval.Comments)
	assert.Equal(t, fixture.Head.ID, *headApproval.ApproverID)

	// The sibling row and the request itself are untouched.
	ictApproval := approvalForRole(t, db, request.ID, models.RoleICT)
	assert.Equal(t, models.ApprovalStatusPending, ictApproval.Status)

	assert.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.RequestStatusPending, request.Status)
}

func TestDualApprovalPromotesRequest(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("appr_dual")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	headApproval := approvalForRole(t, db, request.ID, models.RoleDepartmentHead)
	rec := resolve(t, setupApprovalRouter(db, fixture.Head), headApproval.ID, "approve", "ok")
	assert.Equal(t, http.StatusOK, rec.Code)

	ictApproval := approvalForRole(t, db, request.ID, models.RoleICT)
	rec = resolve(t, setupApprovalRouter(db, fixture.ICT), ictApproval.ID, "approve", "hardware checked")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.RequestStatusApproved, request.Status)

	var asset models.Asset
	assert.NoError(t, db.First(&asset, fixture.Asset.ID).Error)
	assert.Equal(t, models.AssetStatusInUse, asset.Status)

	var notif models.Notification
	err := db.Where("user_id = ? AND title = ?", fixture.Staff.ID, "Request Approved").First(&notif).Error
	assert.NoError(t, err)
}

func TestRejectionRejectsRequest(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("appr_reject")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	ictApproval := approvalForRole(t, db, request.ID, models.RoleICT)
	rec := resolve(t, setupApprovalRouter(db, fixture.ICT), ictApproval.ID, "reject", "asset is due for maintenance")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, db.First(&request, request.ID).Error)
	assert.Equal(t, models.RequestStatusRejected, request.Status)

	// The department head's record keeps its own state.
	headApproval := approvalForRole(t, db, request.ID, models.RoleDepartmentHead)
	assert.Equal(t, models.ApprovalStatusPending, headApproval.Status)

	// Asset never left available.
	var asset models.Asset
	assert.NoError(t, db.First(&asset, fixture.Asset.ID).Error)
	assert.Equal(t, models.AssetStatusAvailable, asset.Status)
}

func TestResolveApprovalRoleGuard(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("appr_guard")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	ictApproval := approvalForRole(t, db, request.ID, models.RoleICT)

	// A department head cannot settle the ICT row.
	rec := resolve(t, setupApprovalRouter(db, fixture.Head), ictApproval.ID, "approve", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.NoError(t, db.First(&ictApproval, ictApproval.ID).Error)
	assert.Equal(t, models.ApprovalStatusPending, ictApproval.Status)

	// An admin can.
	rec = resolve(t, setupApprovalRouter(db, fixture.Admin), ictApproval.ID, "approve", "override")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveApprovalTwiceFails(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("appr_twice")
	fixture := seedWorkflow(db)
	request := submitRequest(t, db, fixture)

	headApproval := approvalForRole(t, db, request.ID, models.RoleDepartmentHead)
	router := setupApprovalRouter(db, fixture.Head)

	rec := resolve(t, router, headApproval.ID, "approve", "ok")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = resolve(t, router, headApproval.ID, "reject", "changed my mind")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.NoError(t, db.First(&headApproval, headApproval.ID).Error)
	assert.Equal(t, models.ApprovalStatusApproved, headApproval.Status)
}

func TestGetPendingApprovalsFiltersByRole(t *testing.T) {
	utils.InitLogger()
	db := openTestDB("appr_pending")
	fixture := seedWorkflow(db)
	submitRequest(t, db, fixture)

	req, _ := http.NewRequest("GET", "/approvals/pending", nil)
	rec := httptest.NewRecorder()
	setupApprovalRouter(db, fixture.ICT).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].([]interface{})
	assert.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, models.RoleICT, row["approver_role"])
}
