package db

import (
	"strings"
	"testing"

	"github.com/zulandar/gantry/internal/config"
	"github.com/zulandar/gantry/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{
			name: "default local",
			cfg:  config.DBConfig{Host: "127.0.0.1", Port: 3306, User: "root", Password: "root123", Database: "gantry"},
			want: "root:root123@tcp(127.0.0.1:3306)/gantry?parseTime=true&charset=utf8mb4",
		},
		{
			name: "custom host and port",
			cfg:  config.DBConfig{Host: "10.0.0.5", Port: 3307, User: "gantry", Password: "s3cret", Database: "gantry_prod"},
			want: "gantry:s3cret@tcp(10.0.0.5:3307)/gantry_prod?parseTime=true&charset=utf8mb4",
		},
		{
			name: "empty password",
			cfg:  config.DBConfig{Host: "db.vpc.internal", Port: 3306, User: "root", Database: "gantry"},
			want: "root:@tcp(db.vpc.internal:3306)/gantry?parseTime=true&charset=utf8mb4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.cfg)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSN_ParseTimeFlag(t *testing.T) {
	dsn := DSN(config.DBConfig{Host: "localhost", Port: 3306, User: "root", Database: "test"})
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime=true: %s", dsn)
	}
}

func TestAllModels(t *testing.T) {
	if got := len(AllModels()); got != 5 {
		t.Errorf("len(AllModels()) = %d, want 5", got)
	}
}

func TestAutoMigrate_SQLite(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	for _, table := range []string{"tasks", "task_updates", "projects", "users", "departments"} {
		if !gdb.Migrator().HasTable(table) {
			t.Errorf("table %q not created", table)
		}
	}
}

func TestSeedAdmin(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	if err := SeedAdmin(gdb, "correct horse battery"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	var admin models.User
	if err := gdb.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("load admin: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want %q", admin.Role, models.RoleAdmin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("correct horse battery")); err != nil {
		t.Errorf("stored password hash does not match: %v", err)
	}

	// Re-seeding updates the password instead of failing on the unique index.
	if err := SeedAdmin(gdb, "another password"); err != nil {
		t.Fatalf("SeedAdmin (again): %v", err)
	}
	var count int64
	gdb.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count != 1 {
		t.Errorf("admin rows = %d, want 1", count)
	}
}
