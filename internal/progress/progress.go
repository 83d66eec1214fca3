// Package progress implements task-tree progress aggregation and
// project-level progress synchronization.
//
// A leaf task's progress is authoritative; a task with children always
// holds the rounded mean of its direct children. Any leaf change is
// propagated upward through the ancestor chain. Project progress is a
// separate flat mean over every task in the project, written back only on
// explicit request.
package progress

import (
	"errors"
	"fmt"
	"math"

	"github.com/zulandar/gantry/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound is returned when a referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrProjectNotFound is returned when a referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrCycle is returned when a parent assignment would make a task its
	// own ancestor.
	ErrCycle = errors.New("parent assignment would create a cycle")
)

// roundHalfUp rounds to the nearest integer with halves rounding up,
// matching floor(x+0.5) semantics.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RecomputeTaskProgress recomputes a task's progress from its direct
// children. A leaf keeps its stored value untouched; a task with children
// gets the rounded mean of their progress persisted. Returns the task's
// current progress either way.
func RecomputeTaskProgress(db *gorm.DB, taskID uint) (int, error) {
	var children []models.Task
	if err := db.Select("progress").Where("parent_id = ?", taskID).Find(&children).Error; err != nil {
		return 0, fmt.Errorf("progress: load children of task %d: %w", taskID, err)
	}

	if len(children) == 0 {
		var task models.Task
		err := db.Select("progress").First(&task, taskID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("progress: task %d: %w", taskID, ErrTaskNotFound)
		}
		if err != nil {
			return 0, fmt.Errorf("progress: load task %d: %w", taskID, err)
		}
		return task.Progress, nil
	}

	sum := 0
	for _, c := range children {
		sum += c.Progress
	}
	avg := roundHalfUp(float64(sum) / float64(len(children)))

	if err := db.Model(&models.Task{}).Where("task_id = ?", taskID).
		Update("progress", avg).Error; err != nil {
		return 0, fmt.Errorf("progress: update task %d: %w", taskID, err)
	}
	return avg, nil
}

// PropagateUpward walks the ancestor chain from taskID toward the root,
// recomputing each parent's progress from its children. The walk stops at
// the first task without a parent. An error aborts the remaining chain;
// ancestors above the failure point keep their previous values.
func PropagateUpward(db *gorm.DB, taskID uint) error {
	current := taskID
	for {
		var task models.Task
		err := db.Select("parent_id").First(&task, current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("progress: load task %d: %w", current, err)
		}
		if task.ParentID == nil {
			return nil
		}
		if _, err := RecomputeTaskProgress(db, *task.ParentID); err != nil {
			return err
		}
		current = *task.ParentID
	}
}

// RecomputeProjectSubtree recomputes the progress of every task in the
// project that has children, deepest level first so each parent sees its
// children's already-updated values. Used defensively by the read path.
func RecomputeProjectSubtree(db *gorm.DB, projectID uint) error {
	var tasks []models.Task
	if err := db.Select("task_id", "parent_id", "level", "progress").
		Where("project_id = ?", projectID).
		Order("level DESC, sort_order, task_id").Find(&tasks).Error; err != nil {
		return fmt.Errorf("progress: load tasks of project %d: %w", projectID, err)
	}

	byID := make(map[uint]*models.Task, len(tasks))
	children := make(map[uint][]*models.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].TaskID] = &tasks[i]
	}
	for i := range tasks {
		if p := tasks[i].ParentID; p != nil {
			children[*p] = append(children[*p], &tasks[i])
		}
	}

	// tasks is ordered deepest first, so children are final before their
	// parent is recomputed.
	for i := range tasks {
		kids := children[tasks[i].TaskID]
		if len(kids) == 0 {
			continue
		}
		sum := 0
		for _, c := range kids {
			sum += c.Progress
		}
		avg := roundHalfUp(float64(sum) / float64(len(kids)))
		byID[tasks[i].TaskID].Progress = avg
		if err := db.Model(&models.Task{}).Where("task_id = ?", tasks[i].TaskID).
			Update("progress", avg).Error; err != nil {
			return fmt.Errorf("progress: update task %d: %w", tasks[i].TaskID, err)
		}
	}
	return nil
}

// ValidateParent rejects a parent assignment that would make taskID its own
// ancestor, walking from the proposed parent toward the root. It also
// refuses to attach under an ancestor chain that already contains a cycle.
// Pass taskID 0 for a task that does not exist yet.
func ValidateParent(db *gorm.DB, taskID uint, parentID *uint) error {
	seen := map[uint]bool{}
	for parentID != nil {
		if *parentID == taskID || seen[*parentID] {
			return fmt.Errorf("progress: task %d: %w", taskID, ErrCycle)
		}
		seen[*parentID] = true
		var parent models.Task
		err := db.Select("parent_id").First(&parent, *parentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("progress: parent task %d: %w", *parentID, ErrTaskNotFound)
		}
		if err != nil {
			return fmt.Errorf("progress: load task %d: %w", *parentID, err)
		}
		parentID = parent.ParentID
	}
	return nil
}
