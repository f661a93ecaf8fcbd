package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/realtime"
	"github.com/assetflow/asset-movement/utils"
)

// ChangeMonitor drains the db_changes table (filled by row triggers) and
// rebroadcasts each change on the websocket hub. Rows written by another
// process instance still reach this instance's clients through here.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Change monitor started (interval %s)", cm.Interval)
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "asset_requests":
			cm.processRequestChange(change)
		case "approvals":
			cm.processApprovalChange(change)
		case "security_verifications":
			cm.processVerificationChange(change)
		case "notifications":
			cm.processNotificationChange(change)
		case "request_comments":
			cm.processCommentChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
		tx.Rollback()
	}
}

func (cm *ChangeMonitor) processRequestChange(change models.DBChange) {
	var request models.AssetRequest
	if err := cm.DB.Preload("Approvals").First(&request, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching request %d: %v", change.RecordID, err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastRequestCreate(request)
	case "UPDATE":
		realtime.BroadcastRequestUpdate(request)
	}
}

func (cm *ChangeMonitor) processApprovalChange(change models.DBChange) {
	var approval models.Approval
	if err := cm.DB.First(&approval, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching approval %d: %v", change.RecordID, err)
		return
	}
	realtime.BroadcastApprovalUpdate(approval)
}

func (cm *ChangeMonitor) processVerificationChange(change models.DBChange) {
	var verification models.SecurityVerification
	if err := cm.DB.First(&verification, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching verification %d: %v", change.RecordID, err)
		return
	}
	realtime.BroadcastVerificationUpdate(verification)
}

func (cm *ChangeMonitor) processNotificationChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}
	var notif models.Notification
	if err := cm.DB.First(&notif, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching notification %d: %v", change.RecordID, err)
		return
	}
	realtime.BroadcastNotification(notif)
}

func (cm *ChangeMonitor) processCommentChange(change models.DBChange) {
	if change.ActionType != "INSERT" {
		return
	}
	var comment models.RequestComment
	if err := cm.DB.Preload("User").First(&comment, change.RecordID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching comment %d: %v", change.RecordID, err)
		return
	}
	realtime.BroadcastCommentCreate(comment)
}
