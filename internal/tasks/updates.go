package tasks

import (
	"fmt"
	"time"

	"github.com/zulandar/gantry/internal/models"
	"github.com/zulandar/gantry/internal/progress"
	"gorm.io/gorm"
)

// UpdateEntry is a reported progress update against a task.
type UpdateEntry struct {
	NewProgress *int
	NewStatus   *string
	HoursSpent  float64
	Note        *string
}

// RecordUpdate appends an immutable TaskUpdate row snapshotting the task's
// old progress/status, applies the new values to the task, adds positive
// hours to actual_hours, and propagates re-aggregation upward.
func RecordUpdate(db *gorm.DB, taskID, userID uint, entry UpdateEntry) (*models.TaskUpdate, error) {
	if entry.NewProgress != nil && (*entry.NewProgress < 0 || *entry.NewProgress > 100) {
		return nil, fmt.Errorf("tasks: new_progress must be between 0 and 100")
	}

	task, err := GetByID(db, taskID)
	if err != nil {
		return nil, err
	}

	oldProgress := task.Progress
	oldStatus := task.Status
	update := models.TaskUpdate{
		TaskID:      taskID,
		UserID:      userID,
		OldProgress: &oldProgress,
		NewProgress: entry.NewProgress,
		OldStatus:   &oldStatus,
		NewStatus:   entry.NewStatus,
		HoursSpent:  entry.HoursSpent,
		Note:        entry.Note,
	}
	if err := db.Create(&update).Error; err != nil {
		return nil, fmt.Errorf("tasks: record update for task %d: %w", taskID, err)
	}

	fields := map[string]interface{}{}
	if entry.NewProgress != nil {
		fields["progress"] = *entry.NewProgress
	}
	if entry.NewStatus != nil {
		fields["status"] = *entry.NewStatus
	}
	if entry.HoursSpent > 0 {
		fields["actual_hours"] = gorm.Expr("actual_hours + ?", entry.HoursSpent)
	}
	if len(fields) > 0 {
		if err := db.Model(&models.Task{}).Where("task_id = ?", taskID).
			Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("tasks: apply update to task %d: %w", taskID, err)
		}
	}

	if entry.NewProgress != nil || entry.NewStatus != nil {
		if err := progress.PropagateUpward(db, taskID); err != nil {
			return &update, err
		}
	}
	return &update, nil
}

// Updates returns a task's update history, newest first.
func Updates(db *gorm.DB, taskID uint) ([]models.TaskUpdate, error) {
	if _, err := GetByID(db, taskID); err != nil {
		return nil, err
	}
	var out []models.TaskUpdate
	if err := db.Where("task_id = ?", taskID).
		Order("created_at DESC, update_id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("tasks: load updates of task %d: %w", taskID, err)
	}
	return out, nil
}

// WeeklyHours sums the hours a user reported since the most recent Monday.
func WeeklyHours(db *gorm.DB, userID uint, now time.Time) (float64, error) {
	monday := mostRecentMonday(now)
	var total float64
	if err := db.Model(&models.TaskUpdate{}).
		Where("user_id = ? AND created_at >= ?", userID, monday).
		Select("COALESCE(SUM(hours_spent), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("tasks: weekly hours for user %d: %w", userID, err)
	}
	return total, nil
}

// mostRecentMonday returns midnight of the Monday on or before now.
func mostRecentMonday(now time.Time) time.Time {
	day := now
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	day = day.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}
