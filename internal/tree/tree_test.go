package tree

import (
	"testing"

	"github.com/zulandar/gantry/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func task(id uint, parent *uint, level, sortOrder int) models.Task {
	return models.Task{TaskID: id, ParentID: parent, Level: level, SortOrder: sortOrder}
}

func TestBuild_Empty(t *testing.T) {
	roots := Build(nil)
	if len(roots) != 0 {
		t.Errorf("len(roots) = %d, want 0", len(roots))
	}
}

func TestBuild_Forest(t *testing.T) {
	// Two roots; first root has two children, one of which has a child.
	tasks := []models.Task{
		task(1, nil, 0, 1),
		task(2, nil, 0, 2),
		task(3, uintPtr(1), 1, 1),
		task(4, uintPtr(1), 1, 2),
		task(5, uintPtr(3), 2, 1),
	}

	roots := Build(tasks)
	if len(roots) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(roots))
	}
	if roots[0].TaskID != 1 || roots[1].TaskID != 2 {
		t.Errorf("root ids = %d, %d, want 1, 2", roots[0].TaskID, roots[1].TaskID)
	}
	if len(roots[0].Children) != 2 {
		t.Fatalf("len(roots[0].Children) = %d, want 2", len(roots[0].Children))
	}
	if roots[0].Children[0].TaskID != 3 || roots[0].Children[1].TaskID != 4 {
		t.Errorf("children of 1 = %d, %d, want 3, 4",
			roots[0].Children[0].TaskID, roots[0].Children[1].TaskID)
	}
	if len(roots[0].Children[0].Children) != 1 || roots[0].Children[0].Children[0].TaskID != 5 {
		t.Errorf("grandchild of 1 missing, want task 5")
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("len(roots[1].Children) = %d, want 0", len(roots[1].Children))
	}
}

func TestBuild_PreservesInputOrder(t *testing.T) {
	tasks := []models.Task{
		task(10, nil, 0, 1),
		task(11, uintPtr(10), 1, 1),
		task(12, uintPtr(10), 1, 2),
		task(13, uintPtr(10), 1, 3),
	}

	roots := Build(tasks)
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	want := []uint{11, 12, 13}
	for i, child := range roots[0].Children {
		if child.TaskID != want[i] {
			t.Errorf("Children[%d].TaskID = %d, want %d", i, child.TaskID, want[i])
		}
	}
}

func TestBuild_OrphanPromotedToRoot(t *testing.T) {
	// Task 7 references parent 99, absent from the input set (e.g. a
	// truncated query). It must surface as a root, not be dropped.
	tasks := []models.Task{
		task(6, nil, 0, 1),
		task(7, uintPtr(99), 3, 1),
	}

	roots := Build(tasks)
	if len(roots) != 2 {
		t.Fatalf("len(roots) = %d, want 2", len(roots))
	}
	if roots[1].TaskID != 7 {
		t.Errorf("roots[1].TaskID = %d, want orphan 7", roots[1].TaskID)
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		task(1, nil, 0, 1),
		task(2, uintPtr(1), 1, 1),
	}
	Build(tasks)

	if tasks[0].ParentID != nil {
		t.Error("input slice mutated")
	}
	if len(tasks[0].Children) != 0 {
		t.Error("input task Children populated, want untouched")
	}
}
