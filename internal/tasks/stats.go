package tasks

import (
	"fmt"
	"time"

	"github.com/zulandar/gantry/internal/models"
	"gorm.io/gorm"
)

// Stats summarizes a user's assigned tasks.
type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// MyTasks lists tasks assigned to a user, ordered for a personal worklist
// (status, priority, end date).
func MyTasks(db *gorm.DB, userID uint, f Filters) ([]models.Task, error) {
	q := db.Model(&models.Task{}).Where("assigned_to = ?", userID)
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		q = q.Where("task_name LIKE ?", "%"+f.Search+"%")
	}

	var out []models.Task
	if err := q.Order("status, priority, end_date").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("tasks: my tasks for user %d: %w", userID, err)
	}
	return out, nil
}

// MyStats counts a user's assigned tasks by status, plus overdue tasks
// (end date passed without completion).
func MyStats(db *gorm.DB, userID uint, now time.Time) (*Stats, error) {
	base := func() *gorm.DB {
		return db.Model(&models.Task{}).Where("assigned_to = ?", userID)
	}

	var s Stats
	if err := base().Count(&s.Total).Error; err != nil {
		return nil, fmt.Errorf("tasks: stats for user %d: %w", userID, err)
	}
	if err := base().Where("status = ?", models.StatusPending).Count(&s.Pending).Error; err != nil {
		return nil, fmt.Errorf("tasks: stats for user %d: %w", userID, err)
	}
	if err := base().Where("status = ?", models.StatusInProgress).Count(&s.InProgress).Error; err != nil {
		return nil, fmt.Errorf("tasks: stats for user %d: %w", userID, err)
	}
	if err := base().Where("status = ?", models.StatusCompleted).Count(&s.Completed).Error; err != nil {
		return nil, fmt.Errorf("tasks: stats for user %d: %w", userID, err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := base().Where("end_date < ? AND status != ?", today, models.StatusCompleted).
		Count(&s.Overdue).Error; err != nil {
		return nil, fmt.Errorf("tasks: stats for user %d: %w", userID, err)
	}
	return &s, nil
}
