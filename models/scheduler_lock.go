package models

import "time"

// SchedulerLock is a leased lock row. A background job may only run its
// tick while it holds the row; the lease expiring releases it implicitly
// so a crashed holder never wedges the schedule.
type SchedulerLock struct {
	Name      string    `gorm:"primaryKey;type:varchar(50)" json:"name"`
	Holder    string    `gorm:"type:varchar(100);not null" json:"holder"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
