package services

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

// RequestService owns the request lifecycle: creation fan-out, cancellation,
// duplication and approval resolution. Every multi-row effect runs inside a
// single transaction so a failure partway leaves no partial state.
type RequestService struct {
	DB *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db}
}

type CreateRequestInput struct {
	AssetID         uint
	RequesterID     uint
	RequesterType   string
	Purpose         string
	PurposeCategory string
	Justification   string
	StartDate       time.Time
	EndDate         time.Time
}

// NewReferenceCode returns the human-trackable code stamped on a request.
func NewReferenceCode() string {
	return "REQ-" + ulid.Make().String()
}

// CreateRequest inserts the request, its two pending approvals
// (department head + ICT) and the approval notification to the requester's
// department head, all-or-nothing.
func (s *RequestService) CreateRequest(input CreateRequestInput) (*models.AssetRequest, error) {
	var requester models.User
	if err := s.DB.First(&requester, input.RequesterID).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}

	var asset models.Asset
	if err := s.DB.First(&asset, input.AssetID).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}

	requesterType := input.RequesterType
	if requesterType == "" {
		requesterType = "staff"
	}

	request := models.AssetRequest{
		ReferenceCode:   NewReferenceCode(),
		AssetID:         asset.ID,
		RequesterID:     requester.ID,
		RequesterType:   requesterType,
		Purpose:         input.Purpose,
		PurposeCategory: input.PurposeCategory,
		Justification:   input.Justification,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          models.RequestStatusPending,
		BranchID:        requester.BranchID,
		DepartmentID:    requester.DepartmentID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		for _, role := range models.RequiredApprovalRoles {
			approval := models.Approval{
				RequestID:    request.ID,
				ApproverRole: role,
				ApproverID:   s.resolveApprover(tx, role, &requester),
				Status:       models.ApprovalStatusPending,
			}
			if err := tx.Create(&approval).Error; err != nil {
				return err
			}
		}

		headID := s.departmentHeadID(tx, requester.DepartmentID)
		if headID != nil {
			link := fmt.Sprintf("/requests/%d", request.ID)
			notif := models.Notification{
				UserID:  *headID,
				Title:   "New Asset Movement Request",
				Message: fmt.Sprintf("%s requested to move %s (%s .. %s). Your approval is needed.", requester.Name, asset.Name, request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")),
				Type:    models.NotificationTypeApproval,
				Link:    &link,
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
		} else {
			utils.ErrorLogger.Printf("Request %d created without department head notification: no head for department", request.ID)
		}

		return nil
	})
	if err != nil {
		return nil, utils.MapStoreError(err)
	}

	if err := s.DB.Preload("Approvals").Preload("Asset").First(&request, request.ID).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}
	return &request, nil
}

// resolveApprover picks the user a role's approval row is addressed to.
// Nil is allowed: the row is still resolvable by anyone holding the role.
func (s *RequestService) resolveApprover(tx *gorm.DB, role string, requester *models.User) *uint {
	switch role {
	case models.RoleDepartmentHead:
		return s.departmentHeadID(tx, requester.DepartmentID)
	case models.RoleICT:
		var officer models.User
		query := tx.Where("role = ?", models.RoleICT)
		if requester.BranchID != nil {
			query = query.Where("branch_id = ?", *requester.BranchID)
		}
		if err := query.First(&officer).Error; err != nil {
			return nil
		}
		return &officer.ID
	}
	return nil
}

func (s *RequestService) departmentHeadID(tx *gorm.DB, departmentID *uint) *uint {
	if departmentID == nil {
		return nil
	}
	var department models.Department
	if err := tx.First(&department, *departmentID).Error; err != nil {
		return nil
	}
	return department.HeadID
}

// CancelRequest moves a pending request to cancelled along with every
// pending approval for it. Any other starting status fails the precondition
// and leaves all rows unchanged.
func (s *RequestService) CancelRequest(requestID uint) (*models.AssetRequest, error) {
	var request models.AssetRequest

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}
		if request.Status != models.RequestStatusPending {
			return utils.NewPreconditionError("only pending requests can be cancelled (current status: %s)", request.Status)
		}

		request.Status = models.RequestStatusCancelled
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Approval{}).
			Where("request_id = ? AND status = ?", request.ID, models.ApprovalStatusPending).
			Update("status", models.ApprovalStatusCancelled).Error; err != nil {
			return err
		}

		link := fmt.Sprintf("/requests/%d", request.ID)
		notif := models.Notification{
			UserID:  request.RequesterID,
			Title:   "Request Cancelled",
			Message: fmt.Sprintf("Request %s has been cancelled.", request.ReferenceCode),
			Type:    models.NotificationTypeRequest,
			Link:    &link,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		if utils.IsPreconditionError(err) {
			return nil, err
		}
		return nil, utils.MapStoreError(err)
	}
	return &request, nil
}

// DuplicateRequest copies asset/purpose/justification fields of an existing
// request into a fresh pending one with a fresh approval pair. Dates default
// to today..today+7d unless overridden. No link to the source is kept.
func (s *RequestService) DuplicateRequest(sourceID uint, startDate, endDate *time.Time) (*models.AssetRequest, error) {
	var source models.AssetRequest
	if err := s.DB.First(&source, sourceID).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}

	now := time.Now()
	start := now
	end := now.AddDate(0, 0, 7)
	if startDate != nil {
		start = *startDate
	}
	if endDate != nil {
		end = *endDate
	}
	// Override dates go through the same invariant as creation.
	if !end.After(start) {
		return nil, utils.NewPreconditionError("end date must be after start date")
	}

	duplicate := models.AssetRequest{
		ReferenceCode:   NewReferenceCode(),
		AssetID:         source.AssetID,
		RequesterID:     source.RequesterID,
		RequesterType:   source.RequesterType,
		Purpose:         source.Purpose,
		PurposeCategory: source.PurposeCategory,
		Justification:   source.Justification,
		StartDate:       start,
		EndDate:         end,
		Status:          models.RequestStatusPending,
		BranchID:        source.BranchID,
		DepartmentID:    source.DepartmentID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&duplicate).Error; err != nil {
			return err
		}
		var requester models.User
		if err := tx.First(&requester, duplicate.RequesterID).Error; err != nil {
			return err
		}
		for _, role := range models.RequiredApprovalRoles {
			approval := models.Approval{
				RequestID:    duplicate.ID,
				ApproverRole: role,
				ApproverID:   s.resolveApprover(tx, role, &requester),
				Status:       models.ApprovalStatusPending,
			}
			if err := tx.Create(&approval).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, utils.MapStoreError(err)
	}

	if err := s.DB.Preload("Approvals").First(&duplicate, duplicate.ID).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}
	return &duplicate, nil
}

type ResolveApprovalInput struct {
	ApprovalID uint
	ReviewerID uint
	Reviewer   string // role claim of the viewer
	Approve    bool
	Comment    string
}

// ResolveApproval writes one reviewer's decision and recomputes the parent
// request's status from the full approval set in the same transaction:
// all approved => approved, any rejected => rejected, otherwise pending.
func (s *RequestService) ResolveApproval(input ResolveApprovalInput) (*models.Approval, error) {
	var approval models.Approval

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&approval, input.ApprovalID).Error; err != nil {
			return err
		}

		// Role guard at the store boundary, not just the UI.
		if approval.ApproverRole != input.Reviewer && input.Reviewer != models.RoleAdmin {
			return utils.NewPreconditionError("approval requires the %s role", approval.ApproverRole)
		}
		if approval.Status != models.ApprovalStatusPending {
			return utils.NewPreconditionError("approval has already been resolved (status: %s)", approval.Status)
		}

		approval.Status = models.ApprovalStatusRejected
		if input.Approve {
			approval.Status = models.ApprovalStatusApproved
		}
		approval.Comments = input.Comment
		approval.ApproverID = &input.ReviewerID
		if err := tx.Save(&approval).Error; err != nil {
			return err
		}

		return s.refreshRequestStatus(tx, approval.RequestID)
	})
	if err != nil {
		if utils.IsPreconditionError(err) {
			return nil, err
		}
		return nil, utils.MapStoreError(err)
	}
	return &approval, nil
}

// refreshRequestStatus recomputes the derived request status after an
// approval write. A rejection rejects the request but leaves the sibling
// approval row untouched, so each reviewer's record stays accurate.
func (s *RequestService) refreshRequestStatus(tx *gorm.DB, requestID uint) error {
	var request models.AssetRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		return err
	}
	if request.Status != models.RequestStatusPending {
		return nil
	}

	var approvals []models.Approval
	if err := tx.Where("request_id = ?", requestID).Find(&approvals).Error; err != nil {
		return err
	}

	derived := deriveRequestStatus(approvals)
	if derived == request.Status {
		return nil
	}

	request.Status = derived
	if err := tx.Save(&request).Error; err != nil {
		return err
	}

	switch derived {
	case models.RequestStatusApproved:
		if err := tx.Model(&models.Asset{}).Where("id = ?", request.AssetID).
			Update("status", models.AssetStatusInUse).Error; err != nil {
			return err
		}
		return s.notifyRequester(tx, &request, "Request Approved",
			fmt.Sprintf("Request %s has been approved by all reviewers.", request.ReferenceCode))
	case models.RequestStatusRejected:
		return s.notifyRequester(tx, &request, "Request Rejected",
			fmt.Sprintf("Request %s has been rejected.", request.ReferenceCode))
	}
	return nil
}

func deriveRequestStatus(approvals []models.Approval) string {
	if len(approvals) == 0 {
		return models.RequestStatusPending
	}
	allApproved := true
	for _, approval := range approvals {
		switch approval.Status {
		case models.ApprovalStatusRejected:
			return models.RequestStatusRejected
		case models.ApprovalStatusApproved:
		default:
			allApproved = false
		}
	}
	if allApproved {
		return models.RequestStatusApproved
	}
	return models.RequestStatusPending
}

func (s *RequestService) notifyRequester(tx *gorm.DB, request *models.AssetRequest, title, message string) error {
	link := fmt.Sprintf("/requests/%d", request.ID)
	notif := models.Notification{
		UserID:  request.RequesterID,
		Title:   title,
		Message: message,
		Type:    models.NotificationTypeRequest,
		Link:    &link,
	}
	return tx.Create(&notif).Error
}
