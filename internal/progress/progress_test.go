package progress

import (
	"errors"
	"testing"

	"github.com/zulandar/gantry/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an in-memory SQLite DB with the tables progress touches.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Task{}, &models.Project{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func uintPtr(v uint) *uint { return &v }

func seedTask(t *testing.T, db *gorm.DB, id, projectID uint, parent *uint, level, pct int) {
	t.Helper()
	task := models.Task{
		TaskID:    id,
		ProjectID: projectID,
		ParentID:  parent,
		TaskName:  "task",
		Level:     level,
		Progress:  pct,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task %d: %v", id, err)
	}
}

func taskProgress(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		t.Fatalf("load task %d: %v", id, err)
	}
	return task.Progress
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{49.4, 49},
		{49.5, 50},
		{62.5, 63},
		{99.9, 100},
	}
	for _, tt := range tests {
		if got := roundHalfUp(tt.in); got != tt.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRecomputeTaskProgress_LeafUnchanged(t *testing.T) {
	db := openTestDB(t)
	seedTask(t, db, 1, 1, nil, 0, 42)

	got, err := RecomputeTaskProgress(db, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("returned progress = %d, want 42", got)
	}
	if pct := taskProgress(t, db, 1); pct != 42 {
		t.Errorf("stored progress = %d, want unchanged 42", pct)
	}
}

func TestRecomputeTaskProgress_MeanOfChildren(t *testing.T) {
	db := openTestDB(t)
	seedTask(t, db, 1, 1, nil, 0, 0)
	seedTask(t, db, 2, 1, uintPtr(1), 1, 50)
	seedTask(t, db, 3, 1, uintPtr(1), 1, 75)

	got, err := RecomputeTaskProgress(db, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mean(50, 75) = 62.5, half rounds up
	if got != 63 {
		t.Errorf("progress = %d, want 63", got)
	}
	if pct := taskProgress(t, db, 1); pct != 63 {
		t.Errorf("stored progress = %d, want 63", pct)
	}
}

func TestRecomputeTaskProgress_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := RecomputeTaskProgress(db, 404)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestPropagateUpward_ReachesRoot(t *testing.T) {
	db := openTestDB(t)
	// root(1) -> a(2) -> b(3) -> leaf(4); unrelated sibling leaf(5) under root.
	seedTask(t, db, 1, 1, nil, 0, 0)
	seedTask(t, db, 2, 1, uintPtr(1), 1, 0)
	seedTask(t, db, 3, 1, uintPtr(2), 2, 0)
	seedTask(t, db, 4, 1, uintPtr(3), 3, 0)
	seedTask(t, db, 5, 1, uintPtr(1), 1, 20)

	if err := db.Model(&models.Task{}).Where("task_id = ?", 4).
		Update("progress", 100).Error; err != nil {
		t.Fatalf("set leaf progress: %v", err)
	}
	if err := PropagateUpward(db, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pct := taskProgress(t, db, 3); pct != 100 {
		t.Errorf("b.progress = %d, want 100", pct)
	}
	if pct := taskProgress(t, db, 2); pct != 100 {
		t.Errorf("a.progress = %d, want 100", pct)
	}
	// root = mean(a=100, sibling=20) = 60
	if pct := taskProgress(t, db, 1); pct != 60 {
		t.Errorf("root.progress = %d, want 60", pct)
	}
	// The unrelated sibling leaf is never touched.
	if pct := taskProgress(t, db, 5); pct != 20 {
		t.Errorf("sibling.progress = %d, want untouched 20", pct)
	}
}

func TestPropagateUpward_LeafGainsChild(t *testing.T) {
	db := openTestDB(t)
	// Root with leaves A(80) and B(40).
	seedTask(t, db, 1, 1, nil, 0, 0)
	seedTask(t, db, 2, 1, uintPtr(1), 1, 80) // A
	seedTask(t, db, 3, 1, uintPtr(1), 1, 40) // B

	got, err := RecomputeTaskProgress(db, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 60 {
		t.Errorf("root progress = %d, want 60", got)
	}

	// C appears under B with progress 100; B stops being a leaf.
	seedTask(t, db, 4, 1, uintPtr(3), 2, 100)
	if err := PropagateUpward(db, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pct := taskProgress(t, db, 3); pct != 100 {
		t.Errorf("B.progress = %d, want 100", pct)
	}
	if pct := taskProgress(t, db, 1); pct != 90 {
		t.Errorf("root.progress = %d, want round(mean(80,100)) = 90", pct)
	}
}

func TestPropagateUpward_MissingTaskStopsQuietly(t *testing.T) {
	db := openTestDB(t)
	if err := PropagateUpward(db, 404); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecomputeProjectSubtree_DeepestFirst(t *testing.T) {
	db := openTestDB(t)
	// root(1) -> mid(2) -> leaves 3(100), 4(50); root also has leaf 5(10).
	// Stored composite values are stale garbage.
	seedTask(t, db, 1, 1, nil, 0, 7)
	seedTask(t, db, 2, 1, uintPtr(1), 1, 7)
	seedTask(t, db, 3, 1, uintPtr(2), 2, 100)
	seedTask(t, db, 4, 1, uintPtr(2), 2, 50)
	seedTask(t, db, 5, 1, uintPtr(1), 1, 10)

	if err := RecomputeProjectSubtree(db, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// mid = mean(100, 50) = 75; root = mean(75, 10) = 42.5 -> 43.
	if pct := taskProgress(t, db, 2); pct != 75 {
		t.Errorf("mid.progress = %d, want 75", pct)
	}
	if pct := taskProgress(t, db, 1); pct != 43 {
		t.Errorf("root.progress = %d, want 43", pct)
	}
	if pct := taskProgress(t, db, 3); pct != 100 {
		t.Errorf("leaf.progress = %d, want untouched 100", pct)
	}
}

func TestValidateParent(t *testing.T) {
	db := openTestDB(t)
	seedTask(t, db, 1, 1, nil, 0, 0)
	seedTask(t, db, 2, 1, uintPtr(1), 1, 0)

	if err := ValidateParent(db, 3, uintPtr(2)); err != nil {
		t.Errorf("valid chain rejected: %v", err)
	}
	if err := ValidateParent(db, 1, uintPtr(2)); !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle for task becoming its own ancestor", err)
	}
	if err := ValidateParent(db, 3, uintPtr(404)); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound for missing parent", err)
	}
	if err := ValidateParent(db, 3, nil); err != nil {
		t.Errorf("nil parent rejected: %v", err)
	}
}

func TestValidateParent_PreexistingCycle(t *testing.T) {
	db := openTestDB(t)
	// 10 and 11 point at each other; the walk must terminate with ErrCycle.
	seedTask(t, db, 10, 1, uintPtr(11), 0, 0)
	seedTask(t, db, 11, 1, uintPtr(10), 0, 0)

	if err := ValidateParent(db, 3, uintPtr(10)); !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
}
