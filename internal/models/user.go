package models

import "time"

// User is an account row. Password holds a bcrypt hash; authentication
// itself lives outside this service.
type User struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	FullName  string    `gorm:"size:128" json:"full_name"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	DeptID    uint      `gorm:"index" json:"dept_id"`
	Role      string    `gorm:"size:32;default:employee" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User role values.
const (
	RoleAdmin          = "admin"
	RoleDeptManager    = "dept_manager"
	RoleProjectManager = "project_manager"
	RoleEmployee       = "employee"
)
