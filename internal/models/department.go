package models

import "time"

// Department groups users and projects.
type Department struct {
	DeptID    uint      `gorm:"primaryKey;autoIncrement" json:"dept_id"`
	DeptName  string    `gorm:"size:128;not null" json:"dept_name"`
	DeptCode  string    `gorm:"size:32;uniqueIndex" json:"dept_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
