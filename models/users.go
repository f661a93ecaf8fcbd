package models

import "time"

// Roles known to the approval workflow.
const (
	RoleStaff          = "staff"
	RoleDepartmentHead = "department_head"
	RoleICT            = "ict"
	RoleSecurity       = "security"
	RoleAdmin          = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Username     string    `gorm:"type:varchar(100);unique;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(30);not null" json:"role"`
	DepartmentID *uint     `gorm:"index" json:"department_id,omitempty"`
	BranchID     *uint     `gorm:"index" json:"branch_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
