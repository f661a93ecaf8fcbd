package models

import "time"

// RequestComment is immutable once created; there is no update path.
type RequestComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;index" json:"request_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserRole  string    `gorm:"type:varchar(30);not null" json:"user_role"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
