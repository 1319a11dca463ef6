package controllers

import (
	"context"
	"net/http"
	"strconv"

	"salarycheck/internal/models"
	"salarycheck/internal/snapshot"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxLimit = 1000

// SnapshotReader is the read side of the stored snapshot.
type SnapshotReader interface {
	List(ctx context.Context, f snapshot.Filter) ([]models.ReconciliationRecord, error)
	Summary(ctx context.Context) (*snapshot.Totals, error)
}

type SnapshotController struct {
	Reader SnapshotReader
	Log    *zap.SugaredLogger
}

// GetRecords returns snapshot rows, optionally filtered by reviewer and status
func (sc *SnapshotController) GetRecords(c *gin.Context) {
	filter := snapshot.Filter{
		Reviewer: c.Query("reviewer"),
		Limit:    sc.getLimitWithDefault(c, 100),
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(raw)})
			return
		}
		filter.Status = status
	}

	records, err := sc.Reader.List(c.Request.Context(), filter)
	if err != nil {
		sc.Log.Errorw("failed to list snapshot records", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
	})
}

// GetSummary returns per-status counts of the snapshot
func (sc *SnapshotController) GetSummary(c *gin.Context) {
	totals, err := sc.Reader.Summary(c.Request.Context())
	if err != nil {
		sc.Log.Errorw("failed to summarize snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (sc *SnapshotController) getLimitWithDefault(c *gin.Context, defaultValue int) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultValue
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		sc.Log.Debugw("invalid limit, using default", "limit", raw, "default", defaultValue)
		return defaultValue
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
