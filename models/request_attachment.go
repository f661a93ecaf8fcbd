package models

import "time"

type RequestAttachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  uint      `gorm:"not null;index" json:"request_id"`
	FileURL    string    `gorm:"type:varchar(500);not null" json:"file_url"`
	FileName   string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileType   string    `gorm:"type:varchar(100)" json:"file_type"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	UploadedBy uint      `gorm:"not null" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
