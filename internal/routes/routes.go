package routes

import (
	"salarycheck/internal/controllers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires the snapshot controller into the API routes
func SetupRouter(reader controllers.SnapshotReader, log *zap.SugaredLogger) *gin.Engine {
	snapshotController := controllers.SnapshotController{Reader: reader, Log: log}

	// Set up Gin router
	router := gin.Default()

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	api := router.Group("/api/v1")
	{
		// GET /api/v1/records?reviewer=&status=&limit=
		api.GET("/records", snapshotController.GetRecords)
		api.GET("/summary", snapshotController.GetSummary)
	}

	return router
}
