package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/gantry/internal/progress"
	"github.com/zulandar/gantry/internal/tasks"
	"gorm.io/gorm"
)

func handleProjectTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		forest, err := tasks.ProjectTree(db, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, forest)
	}
}

func handleProjectProgress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		pct, err := progress.CalculateProjectProgress(db, id)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondOK(c, gin.H{"progress": pct})
	}
}

func handleSyncProjectProgress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := actingUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		pct, err := progress.SyncProjectProgress(db, id, userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondMessage(c, gin.H{"progress": pct}, "project progress synchronized")
	}
}

func handleCalculateAllProgress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := progress.CalculateAllProjectsProgress(db)
		if err != nil {
			respondErr(c, err)
			return
		}
		respondMessage(c, results, fmt.Sprintf("calculated progress for %d projects", len(results)))
	}
}
