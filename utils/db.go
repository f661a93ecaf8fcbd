package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
	mu   sync.RWMutex
)

// InitDB stores the shared database handle. Only the first call wins.
func InitDB(database *gorm.DB) {
	once.Do(func() {
		db = database
	})
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return db
}
