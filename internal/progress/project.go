package progress

import (
	"errors"
	"fmt"

	"github.com/zulandar/gantry/internal/models"
	"gorm.io/gorm"
)

// ProjectProgress pairs a project with its computed progress.
type ProjectProgress struct {
	ProjectID uint `json:"project_id"`
	Progress  int  `json:"progress"`
}

// CalculateProjectProgress returns the rounded flat mean of progress across
// every task in the project, regardless of depth. A project with no tasks
// reports 0. This deliberately differs from task-level aggregation, which
// averages direct children only.
func CalculateProjectProgress(db *gorm.DB, projectID uint) (int, error) {
	var tasks []models.Task
	if err := db.Select("progress").Where("project_id = ?", projectID).
		Find(&tasks).Error; err != nil {
		return 0, fmt.Errorf("progress: load tasks of project %d: %w", projectID, err)
	}
	if len(tasks) == 0 {
		return 0, nil
	}
	sum := 0
	for _, t := range tasks {
		sum += t.Progress
	}
	return roundHalfUp(float64(sum) / float64(len(tasks))), nil
}

// SyncProjectProgress calculates the project's progress and writes it to
// the project row along with the acting user. Explicit, on-demand: project
// progress can drift from the task tree until synchronized.
func SyncProjectProgress(db *gorm.DB, projectID, userID uint) (int, error) {
	var project models.Project
	err := db.Select("project_id").First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("progress: project %d: %w", projectID, ErrProjectNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("progress: load project %d: %w", projectID, err)
	}

	pct, err := CalculateProjectProgress(db, projectID)
	if err != nil {
		return 0, err
	}

	if err := db.Model(&models.Project{}).Where("project_id = ?", projectID).
		Updates(map[string]interface{}{"progress": pct, "updated_by": userID}).Error; err != nil {
		return 0, fmt.Errorf("progress: sync project %d: %w", projectID, err)
	}
	return pct, nil
}

// CalculateAllProjectsProgress recomputes and persists progress for every
// project, strictly sequentially, and returns the computed pairs. Used for
// bulk reconciliation.
func CalculateAllProjectsProgress(db *gorm.DB) ([]ProjectProgress, error) {
	var ids []uint
	if err := db.Model(&models.Project{}).Order("project_id").
		Pluck("project_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("progress: list projects: %w", err)
	}

	results := make([]ProjectProgress, 0, len(ids))
	for _, id := range ids {
		pct, err := CalculateProjectProgress(db, id)
		if err != nil {
			return results, err
		}
		if err := db.Model(&models.Project{}).Where("project_id = ?", id).
			Update("progress", pct).Error; err != nil {
			return results, fmt.Errorf("progress: update project %d: %w", id, err)
		}
		results = append(results, ProjectProgress{ProjectID: id, Progress: pct})
	}
	return results, nil
}
