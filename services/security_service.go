package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/utils"
)

// SecurityService records checkpoint sign-offs and their side effects on
// the request, the asset and the movement audit trail.
type SecurityService struct {
	DB *gorm.DB
}

func NewSecurityService(db *gorm.DB) *SecurityService {
	return &SecurityService{DB: db}
}

// CreateVerification opens a pending sign-off for a movement. An outgoing
// crossing needs a fully approved request; an incoming one needs the asset
// to actually be out.
func (s *SecurityService) CreateVerification(requestID uint, verificationType string) (*models.SecurityVerification, error) {
	var request models.AssetRequest
	if err := s.DB.First(&request, requestID).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}

	switch verificationType {
	case models.VerificationTypeOutgoing:
		if request.Status != models.RequestStatusApproved {
			return nil, utils.NewPreconditionError("request must be approved before the asset may leave (current status: %s)", request.Status)
		}
	case models.VerificationTypeIncoming:
		if request.Status != models.RequestStatusApproved {
			return nil, utils.NewPreconditionError("no active movement to check in (request status: %s)", request.Status)
		}
		// The asset can only come back in if it actually went out.
		var outgoing int64
		if err := s.DB.Model(&models.AssetMovement{}).
			Where("request_id = ? AND movement_type = ? AND movement_status = ?",
				request.ID, models.MovementTypeOutgoing, models.MovementStatusCompleted).
			Count(&outgoing).Error; err != nil {
			return nil, utils.MapStoreError(err)
		}
		if outgoing == 0 {
			return nil, utils.NewPreconditionError("no verified outgoing movement to check in against")
		}
	default:
		return nil, fmt.Errorf("unknown verification type: %s", verificationType)
	}

	verification := models.SecurityVerification{
		RequestID:        request.ID,
		VerificationType: verificationType,
		Status:           models.VerificationStatusPending,
	}
	if err := s.DB.Create(&verification).Error; err != nil {
		return nil, utils.MapStoreError(err)
	}
	return &verification, nil
}

type VerifyInput struct {
	VerificationID      uint
	VerifierID          uint
	FloorGuardName      string
	FloorGuardSignature string
	GateGuardName       string
	GateGuardSignature  string
	Notes               string
}

// Verify records the guard sign-off. Outgoing: asset goes in_use and a
// completed outgoing movement row is written. Incoming: the request is
// completed, the asset becomes available again and the return movement is
// recorded. All in one transaction.
func (s *SecurityService) Verify(input VerifyInput) (*models.SecurityVerification, error) {
	var verification models.SecurityVerification

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&verification, input.VerificationID).Error; err != nil {
			return err
		}
		if verification.Status != models.VerificationStatusPending {
			return utils.NewPreconditionError("verification has already been recorded")
		}

		var request models.AssetRequest
		if err := tx.First(&request, verification.RequestID).Error; err != nil {
			return err
		}

		verification.FloorGuardName = input.FloorGuardName
		verification.FloorGuardSignature = input.FloorGuardSignature
		verification.GateGuardName = input.GateGuardName
		verification.GateGuardSignature = input.GateGuardSignature
		verification.Status = models.VerificationStatusVerified
		if err := tx.Save(&verification).Error; err != nil {
			return err
		}

		now := time.Now()
		movement := models.AssetMovement{
			RequestID:             request.ID,
			AssetID:               request.AssetID,
			MovementType:          verification.VerificationType,
			MovementStatus:        models.MovementStatusCompleted,
			VerifiedBy:            &input.VerifierID,
			VerificationTimestamp: &now,
			Notes:                 input.Notes,
		}

		switch verification.VerificationType {
		case models.VerificationTypeOutgoing:
			movement.OriginLocation = "premises"
			movement.DestinationLocation = "off-premises"
			if err := tx.Model(&models.Asset{}).Where("id = ?", request.AssetID).
				Update("status", models.AssetStatusInUse).Error; err != nil {
				return err
			}
		case models.VerificationTypeIncoming:
			movement.OriginLocation = "off-premises"
			movement.DestinationLocation = "premises"
			request.Status = models.RequestStatusCompleted
			if err := tx.Save(&request).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Asset{}).Where("id = ?", request.AssetID).
				Update("status", models.AssetStatusAvailable).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		link := fmt.Sprintf("/requests/%d", request.ID)
		notif := models.Notification{
			UserID:  request.RequesterID,
			Title:   "Security Verification Recorded",
			Message: fmt.Sprintf("The %s movement for request %s has been verified at the checkpoint.", verification.VerificationType, request.ReferenceCode),
			Type:    models.NotificationTypeSecurity,
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
	return &verification, nil
}
