package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/gantry/internal/models"
	"github.com/zulandar/gantry/internal/notify"
	"github.com/zulandar/gantry/internal/tasks"
	"github.com/zulandar/gantry/internal/tree"
	"gorm.io/gorm"
)

// dateLayout is the wire format for schedule dates.
const dateLayout = "2006-01-02"

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &d, nil
}

// queryFilters builds task filters from request query parameters.
func queryFilters(c *gin.Context) tasks.Filters {
	f := tasks.Filters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if v, err := strconv.ParseUint(c.Query("project_id"), 10, 32); err == nil && v > 0 {
		id := uint(v)
		f.ProjectID = &id
	}
	if v, err := strconv.ParseUint(c.Query("assigned_to"), 10, 32); err == nil && v > 0 {
		id := uint(v)
		f.AssignedTo = &id
	}
	return f
}

func handleListTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := tasks.List(db, queryFilters(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		if c.Query("include_children") == "true" {
			respondOK(c, gin.H{"data": tree.Build(list), "total": len(list)})
			return
		}
		respondOK(c, gin.H{"data": list, "total": len(list)})
	}
}

func handleGetTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		task, err := tasks.GetByID(db, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, task)
	}
}

type createTaskRequest struct {
	ProjectID      uint    `json:"project_id"`
	ParentID       *uint   `json:"parent_id"`
	TaskName       string  `json:"task_name"`
	TaskDesc       string  `json:"task_desc"`
	AssignedTo     *uint   `json:"assigned_to"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	EstimatedHours float64 `json:"estimated_hours"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	Progress       int     `json:"progress"`
}

func handleCreateTask(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}

		task, err := tasks.Create(db, tasks.CreateInput{
			ProjectID:      req.ProjectID,
			ParentID:       req.ParentID,
			TaskName:       req.TaskName,
			TaskDesc:       req.TaskDesc,
			AssignedTo:     req.AssignedTo,
			StartDate:      start,
			EndDate:        end,
			EstimatedHours: req.EstimatedHours,
			Priority:       req.Priority,
			Status:         req.Status,
			Progress:       req.Progress,
		}, userID)
		if err != nil {
			respondErr(c, err)
			return
		}

		if task.AssignedTo != nil {
			notifier.TaskAssigned(task, userName(db, *task.AssignedTo))
		}
		respondMessage(c, task, "task created")
	}
}

type updateTaskRequest struct {
	TaskName       *string  `json:"task_name"`
	TaskDesc       *string  `json:"task_desc"`
	AssignedTo     *uint    `json:"assigned_to"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
	Priority       *string  `json:"priority"`
	Status         *string  `json:"status"`
	Progress       *int     `json:"progress"`
}

func handleUpdateTask(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}

		in := tasks.UpdateInput{
			TaskName:       req.TaskName,
			TaskDesc:       req.TaskDesc,
			AssignedTo:     req.AssignedTo,
			EstimatedHours: req.EstimatedHours,
			ActualHours:    req.ActualHours,
			Priority:       req.Priority,
			Status:         req.Status,
			Progress:       req.Progress,
		}
		if req.StartDate != nil {
			d, err := parseDate(*req.StartDate)
			if err != nil {
				respondBadRequest(c, err.Error())
				return
			}
			in.StartDate = d
		}
		if req.EndDate != nil {
			d, err := parseDate(*req.EndDate)
			if err != nil {
				respondBadRequest(c, err.Error())
				return
			}
			in.EndDate = d
		}

		task, err := tasks.Update(db, id, in)
		if err != nil {
			respondErr(c, err)
			return
		}

		if req.Status != nil && *req.Status == models.StatusCompleted {
			notifier.TaskCompleted(task)
		}
		respondMessage(c, task, "task updated")
	}
}

func handleDeleteTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := tasks.Delete(db, id); err != nil {
			respondErr(c, err)
			return
		}
		respondMessage(c, nil, "task deleted")
	}
}

type recordUpdateRequest struct {
	NewProgress *int    `json:"new_progress"`
	NewStatus   *string `json:"new_status"`
	HoursSpent  float64 `json:"hours_spent"`
	Note        *string `json:"note"`
}

func handleRecordTaskUpdate(db *gorm.DB, notifier *notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req recordUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}

		update, err := tasks.RecordUpdate(db, id, userID, tasks.UpdateEntry{
			NewProgress: req.NewProgress,
			NewStatus:   req.NewStatus,
			HoursSpent:  req.HoursSpent,
			Note:        req.Note,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		if req.NewStatus != nil && *req.NewStatus == models.StatusCompleted {
			if task, err := tasks.GetByID(db, id); err == nil {
				notifier.TaskCompleted(task)
			}
		}
		respondMessage(c, update, "task progress recorded")
	}
}

func handleTaskUpdates(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		updates, err := tasks.Updates(db, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, updates)
	}
}

func handleMyTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		list, err := tasks.MyTasks(db, userID, queryFilters(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, gin.H{"data": list, "total": len(list)})
	}
}

func handleMyStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		stats, err := tasks.MyStats(db, userID, time.Now())
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, stats)
	}
}

func handleWeeklyHours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		total, err := tasks.WeeklyHours(db, userID, time.Now())
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, gin.H{"total": total})
	}
}

// userName resolves a display name for notifications, falling back to the
// numeric id when the user row is missing.
func userName(db *gorm.DB, userID uint) string {
	var user models.User
	if err := db.Select("full_name", "username").First(&user, userID).Error; err != nil {
		return fmt.Sprintf("user %d", userID)
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}
