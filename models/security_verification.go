package models

import "time"

// Verification types and statuses
const (
	VerificationTypeOutgoing = "outgoing"
	VerificationTypeIncoming = "incoming"

	VerificationStatusPending  = "pending"
	VerificationStatusVerified = "verified"
)

// SecurityVerification records the floor and gate guard sign-off for one
// physical movement of an asset past the checkpoint.
type SecurityVerification struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	RequestID           uint      `gorm:"not null;index" json:"request_id"`
	FloorGuardName      string    `gorm:"type:varchar(255)" json:"floor_guard_name"`
	FloorGuardSignature string    `gorm:"type:text" json:"floor_guard_signature"`
	GateGuardName       string    `gorm:"type:varchar(255)" json:"gate_guard_name"`
	GateGuardSignature  string    `gorm:"type:text" json:"gate_guard_signature"`
	VerificationType    string    `gorm:"type:varchar(20);not null" json:"verification_type"`
	Status              string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
