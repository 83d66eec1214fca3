package db

import (
	"fmt"

	"github.com/zulandar/gantry/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Department{},
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TaskUpdate{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedAdmin upserts the admin account with the given initial password.
func SeedAdmin(db *gorm.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("db: hash admin password: %w", err)
	}

	admin := models.User{
		Username: "admin",
		Password: string(hash),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password", "role"}),
	}).Create(&admin)
	if result.Error != nil {
		return fmt.Errorf("db: seed admin: %w", result.Error)
	}
	return nil
}
