package models

import "time"

// Asset statuses
const (
	AssetStatusAvailable   = "available"
	AssetStatusInUse       = "in_use"
	AssetStatusMaintenance = "maintenance"
	AssetStatusDisposed    = "disposed"
)

type Asset struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Type           string     `gorm:"type:varchar(100);not null" json:"type"`
	Model          string     `gorm:"type:varchar(255)" json:"model"`
	SerialNumber   string     `gorm:"type:varchar(100);index" json:"serial_number"`
	TagNumber      string     `gorm:"type:varchar(100);index" json:"tag_number"`
	Specifications string     `gorm:"type:text" json:"specifications"`
	Condition      string     `gorm:"type:varchar(20);not null;default:'good'" json:"condition"`
	Status         string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	BranchID       *uint      `gorm:"index" json:"branch_id,omitempty"`
	Branch         *Branch    `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	DepartmentID   *uint      `gorm:"index" json:"department_id,omitempty"`
	Department     *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
