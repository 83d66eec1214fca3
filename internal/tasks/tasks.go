// Package tasks is the service layer over the task store: CRUD, tree reads,
// update history, and workload statistics. Mutations that change progress or
// structure trigger upward re-aggregation via the progress package.
package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/zulandar/gantry/internal/models"
	"github.com/zulandar/gantry/internal/progress"
	"github.com/zulandar/gantry/internal/tree"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound is returned when a referenced task does not exist.
	ErrTaskNotFound = progress.ErrTaskNotFound
	// ErrHasChildren rejects deletion of a task that still has children.
	ErrHasChildren = errors.New("task has children; delete them first")
)

// Filters narrows task listings.
type Filters struct {
	ProjectID  *uint
	AssignedTo *uint
	Status     string
	Priority   string
	Search     string
}

// List returns tasks matching the filters, ordered for stable tree display
// (project, level, sort_order, task_id).
func List(db *gorm.DB, f Filters) ([]models.Task, error) {
	q := db.Model(&models.Task{})
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
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
	if err := q.Order("project_id, level, sort_order, task_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	return out, nil
}

// GetByID returns a single task.
func GetByID(db *gorm.DB, taskID uint) (*models.Task, error) {
	var task models.Task
	err := db.First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("tasks: task %d: %w", taskID, ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tasks: load task %d: %w", taskID, err)
	}
	return &task, nil
}

// ProjectTree returns the project's tasks as a nested forest. Composite task
// progress is re-derived from children before the read so the rendered tree
// is consistent even if an earlier propagation was interrupted.
func ProjectTree(db *gorm.DB, projectID uint) ([]*tree.Node, error) {
	if err := progress.RecomputeProjectSubtree(db, projectID); err != nil {
		return nil, err
	}

	var rows []models.Task
	if err := db.Where("project_id = ?", projectID).
		Order("level, sort_order, task_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("tasks: load project %d tasks: %w", projectID, err)
	}
	return tree.Build(rows), nil
}

// CreateInput holds fields for a new task.
type CreateInput struct {
	ProjectID      uint
	ParentID       *uint
	TaskName       string
	TaskDesc       string
	AssignedTo     *uint
	StartDate      *time.Time
	EndDate        *time.Time
	EstimatedHours float64
	Priority       string
	Status         string
	Progress       int
}

// Create inserts a task. Level is parent.level+1 (0 for roots) and
// sort_order is max(sibling)+1. Appending a child changes the parent's mean,
// so creation with a parent propagates upward from the new task.
func Create(db *gorm.DB, in CreateInput, userID uint) (*models.Task, error) {
	if in.TaskName == "" {
		return nil, fmt.Errorf("tasks: task_name is required")
	}
	if in.ProjectID == 0 {
		return nil, fmt.Errorf("tasks: project_id is required")
	}
	if in.Progress < 0 || in.Progress > 100 {
		return nil, fmt.Errorf("tasks: progress must be between 0 and 100")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}

	level := 0
	if in.ParentID != nil {
		// The task id does not exist yet, so the walk can only trip on a
		// chain that is already cyclic or a missing parent.
		if err := progress.ValidateParent(db, 0, in.ParentID); err != nil {
			return nil, err
		}
		parent, err := GetByID(db, *in.ParentID)
		if err != nil {
			return nil, err
		}
		level = parent.Level + 1
	}

	sortOrder, err := nextSortOrder(db, in.ProjectID, in.ParentID)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ProjectID:      in.ProjectID,
		ParentID:       in.ParentID,
		TaskName:       in.TaskName,
		TaskDesc:       in.TaskDesc,
		AssignedTo:     in.AssignedTo,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		EstimatedHours: in.EstimatedHours,
		Priority:       in.Priority,
		Status:         in.Status,
		Progress:       in.Progress,
		Level:          level,
		SortOrder:      sortOrder,
		CreatedBy:      userID,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("tasks: create: %w", err)
	}

	if in.ParentID != nil {
		if err := progress.PropagateUpward(db, task.TaskID); err != nil {
			return &task, err
		}
	}
	return &task, nil
}

// nextSortOrder returns max(sibling sort_order)+1 among tasks sharing the
// same parent within the project.
func nextSortOrder(db *gorm.DB, projectID uint, parentID *uint) (int, error) {
	q := db.Model(&models.Task{}).Where("project_id = ?", projectID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	var next int
	if err := q.Select("COALESCE(MAX(sort_order), 0) + 1").Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("tasks: next sort_order: %w", err)
	}
	return next, nil
}

// UpdateInput holds optional field changes. Nil fields are left untouched.
// ParentID is deliberately absent: re-parenting is unsupported.
type UpdateInput struct {
	TaskName       *string
	TaskDesc       *string
	AssignedTo     *uint
	StartDate      *time.Time
	EndDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	Priority       *string
	Status         *string
	Progress       *int
}

// Update applies the provided fields and, when progress or status changed,
// propagates re-aggregation up the ancestor chain.
func Update(db *gorm.DB, taskID uint, in UpdateInput) (*models.Task, error) {
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return nil, fmt.Errorf("tasks: progress must be between 0 and 100")
	}

	fields := map[string]interface{}{}
	if in.TaskName != nil {
		fields["task_name"] = *in.TaskName
	}
	if in.TaskDesc != nil {
		fields["task_desc"] = *in.TaskDesc
	}
	if in.AssignedTo != nil {
		fields["assigned_to"] = *in.AssignedTo
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		fields["end_date"] = *in.EndDate
	}
	if in.EstimatedHours != nil {
		fields["estimated_hours"] = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		fields["actual_hours"] = *in.ActualHours
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Progress != nil {
		fields["progress"] = *in.Progress
	}

	// Existence check up front: MySQL reports zero affected rows for
	// no-op updates, so RowsAffected cannot distinguish missing from
	// unchanged.
	if _, err := GetByID(db, taskID); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return GetByID(db, taskID)
	}

	if err := db.Model(&models.Task{}).Where("task_id = ?", taskID).
		Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("tasks: update task %d: %w", taskID, err)
	}

	if in.Progress != nil || in.Status != nil {
		if err := progress.PropagateUpward(db, taskID); err != nil {
			return nil, err
		}
	}
	return GetByID(db, taskID)
}

// Delete removes a task. Deletion is rejected while children exist, guarding
// against silently orphaned subtrees. Removing a child changes the remaining
// mean, so the former parent is recomputed and the change propagated.
func Delete(db *gorm.DB, taskID uint) error {
	task, err := GetByID(db, taskID)
	if err != nil {
		return err
	}

	var childCount int64
	if err := db.Model(&models.Task{}).Where("parent_id = ?", taskID).
		Count(&childCount).Error; err != nil {
		return fmt.Errorf("tasks: count children of task %d: %w", taskID, err)
	}
	if childCount > 0 {
		return fmt.Errorf("tasks: task %d: %w", taskID, ErrHasChildren)
	}

	parentID := task.ParentID
	if err := db.Delete(&models.Task{}, taskID).Error; err != nil {
		return fmt.Errorf("tasks: delete task %d: %w", taskID, err)
	}

	if parentID != nil {
		if _, err := progress.RecomputeTaskProgress(db, *parentID); err != nil {
			return err
		}
		if err := progress.PropagateUpward(db, *parentID); err != nil {
			return err
		}
	}
	return nil
}
