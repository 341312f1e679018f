package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHealth handles GET /health. Liveness only, no dependency checks.
func GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
