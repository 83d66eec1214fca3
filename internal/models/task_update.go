package models

import "time"

// TaskUpdate is an append-only record of a reported progress/status change.
// Rows are created alongside task mutations and never edited or deleted.
type TaskUpdate struct {
	UpdateID    uint      `gorm:"primaryKey;autoIncrement" json:"update_id"`
	TaskID      uint      `gorm:"not null;index" json:"task_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	OldProgress *int      `json:"old_progress"`
	NewProgress *int      `json:"new_progress"`
	OldStatus   *string   `gorm:"size:16" json:"old_status"`
	NewStatus   *string   `gorm:"size:16" json:"new_status"`
	HoursSpent  float64   `gorm:"default:0" json:"hours_spent"`
	Note        *string   `gorm:"type:text" json:"note"`
	CreatedAt   time.Time `json:"created_at"`

	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}
