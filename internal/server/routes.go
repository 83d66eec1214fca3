package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/gantry/internal/notify"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, notifier *notify.Notifier) {
	router.GET("/healthz", handleHealth(db))

	api := router.Group("/api")

	t := api.Group("/tasks")
	t.GET("", handleListTasks(db))
	t.POST("", handleCreateTask(db, notifier))
	t.GET("/my", handleMyTasks(db))
	t.GET("/my/stats", handleMyStats(db))
	t.GET("/weekly-hours", handleWeeklyHours(db))
	t.GET("/:id", handleGetTask(db))
	t.PUT("/:id", handleUpdateTask(db, notifier))
	t.DELETE("/:id", handleDeleteTask(db))
	t.POST("/:id/updates", handleRecordTaskUpdate(db, notifier))
	t.GET("/:id/updates", handleTaskUpdates(db))

	p := api.Group("/projects")
	p.GET("/:id/tasks", handleProjectTasks(db))
	p.GET("/:id/progress", handleProjectProgress(db))
	p.POST("/:id/progress/sync", handleSyncProjectProgress(db))
	p.POST("/progress/calculate-all", handleCalculateAllProgress(db))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, response{Success: false, Message: "database unreachable"})
			return
		}
		respondOK(c, gin.H{"status": "ok"})
	}
}
