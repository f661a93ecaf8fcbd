package models

import "time"

// Notification types
const (
	NotificationTypeRequest  = "request"
	NotificationTypeApproval = "approval"
	NotificationTypeSecurity = "security"
	NotificationTypeSystem   = "system"
)

// Notification is append-only: workflow code creates rows and marks them
// read, never deletes them.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title     string    `gorm:"type:varchar(150);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(20);not null;default:'system'" json:"type"`
	Read      bool      `gorm:"column:is_read;default:false;index" json:"read"`
	Link      *string   `gorm:"type:varchar(255)" json:"link,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
