package models

import "time"

// Task is a node in a project's work-breakdown tree. Progress on a task
// with children is derived from the children; leaf progress is set directly.
type Task struct {
	TaskID         uint       `gorm:"primaryKey;autoIncrement" json:"task_id"`
	ProjectID      uint       `gorm:"not null;index" json:"project_id"`
	ParentID       *uint      `gorm:"index" json:"parent_id"`
	TaskName       string     `gorm:"size:255;not null" json:"task_name"`
	TaskDesc       string     `gorm:"type:text" json:"task_desc"`
	AssignedTo     *uint      `gorm:"index" json:"assigned_to"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	EstimatedHours float64    `gorm:"default:0" json:"estimated_hours"`
	ActualHours    float64    `gorm:"default:0" json:"actual_hours"`
	Priority       string     `gorm:"size:16;default:medium" json:"priority"`
	Status         string     `gorm:"size:16;default:pending;index" json:"status"`
	Progress       int        `gorm:"default:0" json:"progress"`
	Level          int        `gorm:"default:0" json:"level"`
	SortOrder      int        `gorm:"default:0" json:"sort_order"`
	CreatedBy      uint       `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Parent   *Task  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Task `gorm:"foreignKey:ParentID" json:"-"`
}

// Task status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// IsOverdue reports whether the task's end date has passed without completion.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.EndDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.EndDate.Before(now.Truncate(24 * time.Hour))
}
