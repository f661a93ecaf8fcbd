package models

import "time"

// Request statuses
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCancelled = "cancelled"
	RequestStatusCompleted = "completed"
)

// Purpose categories accepted by request validation.
var PurposeCategories = []string{
	"work", "training", "event", "maintenance", "transfer", "disposal", "other",
}

type AssetRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ReferenceCode   string     `gorm:"type:varchar(30);unique;not null" json:"reference_code"`
	AssetID         uint       `gorm:"not null;index" json:"asset_id"`
	Asset           Asset      `gorm:"foreignKey:AssetID" json:"asset"`
	RequesterID     uint       `gorm:"not null;index" json:"requester_id"`
	Requester       User       `gorm:"foreignKey:RequesterID" json:"requester"`
	RequesterType   string     `gorm:"type:varchar(20);not null;default:'staff'" json:"requester_type"`
	Purpose         string     `gorm:"type:text;not null" json:"purpose"`
	PurposeCategory string     `gorm:"type:varchar(30);not null" json:"purpose_category"`
	Justification   string     `gorm:"type:varchar(500);not null" json:"justification"`
	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	EndDate         time.Time  `gorm:"not null" json:"end_date"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	BranchID        *uint      `gorm:"index" json:"branch_id,omitempty"`
	DepartmentID    *uint      `gorm:"index" json:"department_id,omitempty"`

	// Reminder flags are monotonic: the sweep only ever sets them true.
	ThreeDayReminderSent bool `gorm:"default:false" json:"three_day_reminder_sent"`
	OneDayReminderSent   bool `gorm:"default:false" json:"one_day_reminder_sent"`
	OverdueReminderSent  bool `gorm:"default:false" json:"overdue_reminder_sent"`

	Approvals             []Approval             `gorm:"foreignKey:RequestID" json:"approvals,omitempty"`
	SecurityVerifications []SecurityVerification `gorm:"foreignKey:RequestID" json:"security_verifications,omitempty"`
	Comments              []RequestComment       `gorm:"foreignKey:RequestID" json:"comments,omitempty"`
	Attachments           []RequestAttachment    `gorm:"foreignKey:RequestID" json:"attachments,omitempty"`
	Movements             []AssetMovement        `gorm:"foreignKey:RequestID" json:"movements,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
