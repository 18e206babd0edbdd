package utils

import (
	"context"
	"net/http"
	"time"

	"mindwell/database"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports reachability of the storage and queue backends.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok"}
	code := http.StatusOK

	if err := database.MongoClient.Ping(ctx, nil); err != nil {
		status["mongo"] = err.Error()
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := GetCacheClient().Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, status)
}
