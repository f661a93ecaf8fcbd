package models

import "time"

type Branch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Location  string    `gorm:"type:varchar(255)" json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// Department keeps a pointer to its head so request creation can address
// the first approval notification without a role scan.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	HeadID    *uint     `gorm:"index" json:"head_id,omitempty"`
	Head      *User     `gorm:"foreignKey:HeadID" json:"head,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
