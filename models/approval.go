package models

import "time"

// Approval statuses
const (
	ApprovalStatusPending   = "pending"
	ApprovalStatusApproved  = "approved"
	ApprovalStatusRejected  = "rejected"
	ApprovalStatusCancelled = "cancelled"
)

// Roles required before a request can leave pending. Exactly one approval
// row per role is created when the request is submitted.
var RequiredApprovalRoles = []string{RoleDepartmentHead, RoleICT}

type Approval struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    uint      `gorm:"not null;index;uniqueIndex:idx_request_role" json:"request_id"`
	ApproverID   *uint     `gorm:"index" json:"approver_id,omitempty"`
	Approver     *User     `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	ApproverRole string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_request_role" json:"approver_role"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Comments     string    `gorm:"type:text" json:"comments"`
	ReminderSent bool      `gorm:"default:false" json:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
