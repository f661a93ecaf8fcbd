package database

import (
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/utils"
)

// ExecuteTriggers installs the row triggers that append to db_changes.
// The SQL file uses DELIMITER blocks, which the MySQL driver cannot send
// as-is, so each statement is split out and executed individually.
func ExecuteTriggers(db *gorm.DB) error {
	triggerSQL, err := os.ReadFile("database/migrations/triggers.sql")
	if err != nil {
		return err
	}

	statements := strings.Split(string(triggerSQL), "DELIMITER")

	for _, block := range statements {
		if strings.TrimSpace(block) == "" {
			continue
		}

		for _, stmt := range strings.Split(block, "//") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || stmt == ";" {
				continue
			}

			if err := db.Exec(stmt).Error; err != nil {
				utils.ErrorLogger.Printf("Error executing trigger statement: %v", err)
				continue
			}
		}
	}

	var count int64
	db.Raw(`
        SELECT COUNT(*)
        FROM information_schema.triggers
        WHERE TRIGGER_SCHEMA = DATABASE()
    `).Scan(&count)
	utils.InfoLogger.Printf("Change-feed triggers installed: %d active", count)

	return nil
}
