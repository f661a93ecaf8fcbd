package services

import (
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/models"
	"github.com/assetflow/asset-movement/realtime"
	"github.com/assetflow/asset-movement/utils"
)

const (
	reminderLockName = "reminder_sweep"
	approvalNagAge   = 48 * time.Hour
)

// ReminderMonitor periodically scans open requests for due reminders:
// return-date warnings (3 days, 1 day, overdue) on approved requests and
// 48h nags on stale pending approvals. A leased lock row keeps the sweep
// single-instance when several processes run.
type ReminderMonitor struct {
	DB       *gorm.DB
	Interval time.Duration
	StopChan chan struct{}
	holder   string
}

func NewReminderMonitor(db *gorm.DB, interval time.Duration) *ReminderMonitor {
	hostname, _ := os.Hostname()
	return &ReminderMonitor{
		DB:       db,
		Interval: interval,
		StopChan: make(chan struct{}),
		holder:   fmt.Sprintf("%s-%d", hostname, os.Getpid()),
	}
}

func (rm *ReminderMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !rm.acquireLock() {
					continue
				}
				if err := rm.Sweep(time.Now()); err != nil {
					utils.ErrorLogger.Printf("Reminder sweep failed: %v", err)
				}
			case <-rm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Reminder monitor started (interval %s)", rm.Interval)
}

func (rm *ReminderMonitor) Stop() {
	close(rm.StopChan)
}

// acquireLock takes or renews the sweep lease. Another live holder means
// this instance skips the tick.
func (rm *ReminderMonitor) acquireLock() bool {
	now := time.Now()
	expires := now.Add(rm.Interval)

	res := rm.DB.Model(&models.SchedulerLock{}).
		Where("name = ? AND (holder = ? OR expires_at < ?)", reminderLockName, rm.holder, now).
		Updates(map[string]interface{}{"holder": rm.holder, "expires_at": expires})
	if res.Error == nil && res.RowsAffected > 0 {
		return true
	}

	lock := models.SchedulerLock{Name: reminderLockName, Holder: rm.holder, ExpiresAt: expires}
	return rm.DB.Create(&lock).Error == nil
}

// Sweep runs one pass over open requests. Notification and flag are written
// in the same transaction per threshold, so rerunning the sweep never emits
// a second reminder for the same (request, threshold) pair.
func (rm *ReminderMonitor) Sweep(now time.Time) error {
	var requests []models.AssetRequest
	if err := rm.DB.Preload("Approvals").Preload("Asset").
		Where("status IN ?", []string{models.RequestStatusPending, models.RequestStatusApproved}).
		Order("end_date ASC").
		Find(&requests).Error; err != nil {
		return err
	}

	for i := range requests {
		request := &requests[i]
		switch request.Status {
		case models.RequestStatusApproved:
			if err := rm.checkReturnReminders(request, now); err != nil {
				utils.ErrorLogger.Printf("Return reminder failed for request %d: %v", request.ID, err)
			}
		case models.RequestStatusPending:
			if err := rm.checkApprovalNags(request, now); err != nil {
				utils.ErrorLogger.Printf("Approval nag failed for request %d: %v", request.ID, err)
			}
		}
	}
	return nil
}

func (rm *ReminderMonitor) checkReturnReminders(request *models.AssetRequest, now time.Time) error {
	if !request.ThreeDayReminderSent && !now.Before(request.EndDate.AddDate(0, 0, -3)) {
		msg := fmt.Sprintf("%s is due for return in 3 days. Return date: %s", request.Asset.Name, request.EndDate.Format("Jan 2, 2006"))
		if err := rm.emit(request, "three_day_reminder_sent", "Asset Return Reminder", msg); err != nil {
			return err
		}
		request.ThreeDayReminderSent = true
	}

	if !request.OneDayReminderSent && !now.Before(request.EndDate.AddDate(0, 0, -1)) {
		msg := fmt.Sprintf("%s is due for return in 1 day. Return date: %s", request.Asset.Name, request.EndDate.Format("Jan 2, 2006"))
		if err := rm.emit(request, "one_day_reminder_sent", "Asset Return Reminder", msg); err != nil {
			return err
		}
		request.OneDayReminderSent = true
	}

	if !request.OverdueReminderSent && !now.Before(request.EndDate) {
		msg := fmt.Sprintf("%s was due for return on %s. Please return it immediately.", request.Asset.Name, request.EndDate.Format("Jan 2, 2006"))
		if err := rm.emit(request, "overdue_reminder_sent", "Asset Return Overdue", msg); err != nil {
			return err
		}
		request.OverdueReminderSent = true
	}
	return nil
}

// emit writes the notification and sets the request's reminder flag in one
// transaction, then pushes it to the requester's feed.
func (rm *ReminderMonitor) emit(request *models.AssetRequest, flagColumn, title, message string) error {
	link := fmt.Sprintf("/requests/%d", request.ID)
	notif := models.Notification{
		UserID:  request.RequesterID,
		Title:   title,
		Message: message,
		Type:    models.NotificationTypeSystem,
		Link:    &link,
	}

	err := rm.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}
		return tx.Model(&models.AssetRequest{}).Where("id = ?", request.ID).
			Update(flagColumn, true).Error
	})
	if err != nil {
		return err
	}

	realtime.BroadcastNotification(notif)
	return nil
}

func (rm *ReminderMonitor) checkApprovalNags(request *models.AssetRequest, now time.Time) error {
	for i := range request.Approvals {
		approval := &request.Approvals[i]
		if approval.Status != models.ApprovalStatusPending || approval.ReminderSent {
			continue
		}
		if now.Sub(approval.CreatedAt) < approvalNagAge {
			continue
		}
		if approval.ApproverID == nil {
			// Nobody holds this role yet; leave the flag unset so the nag
			// fires once an approver is assigned.
			continue
		}

		link := fmt.Sprintf("/requests/%d", request.ID)
		notif := models.Notification{
			UserID:  *approval.ApproverID,
			Title:   "Pending Approval Reminder",
			Message: fmt.Sprintf("Request %s for %s has been awaiting your approval for over 48 hours.", request.ReferenceCode, request.Asset.Name),
			Type:    models.NotificationTypeApproval,
			Link:    &link,
		}

		err := rm.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
			return tx.Model(&models.Approval{}).Where("id = ?", approval.ID).
				Update("reminder_sent", true).Error
		})
		if err != nil {
			return err
		}
		approval.ReminderSent = true

		realtime.BroadcastNotification(notif)
	}
	return nil
}
