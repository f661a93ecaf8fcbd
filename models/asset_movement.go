package models

import "time"

// Movement types and statuses
const (
	MovementTypeOutgoing = "outgoing"
	MovementTypeIncoming = "incoming"
	MovementTypeTransfer = "transfer"
	MovementTypeDisposal = "disposal"

	MovementStatusPending   = "pending"
	MovementStatusInTransit = "in_transit"
	MovementStatusCompleted = "completed"
)

// AssetMovement is the physical audit trail behind a request: one row per
// checkpoint crossing, closed out when security verifies the crossing.
type AssetMovement struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	RequestID             uint       `gorm:"not null;index" json:"request_id"`
	AssetID               uint       `gorm:"not null;index" json:"asset_id"`
	OriginLocation        string     `gorm:"type:varchar(255)" json:"origin_location"`
	DestinationLocation   string     `gorm:"type:varchar(255)" json:"destination_location"`
	MovementType          string     `gorm:"type:varchar(20);not null" json:"movement_type"`
	MovementStatus        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"movement_status"`
	VerifiedBy            *uint      `json:"verified_by,omitempty"`
	VerificationTimestamp *time.Time `json:"verification_timestamp,omitempty"`
	Notes                 string     `gorm:"type:text" json:"notes"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
