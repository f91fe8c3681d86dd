package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root returns the static welcome payload.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Finflow API"})
}

// Health is a liveness probe only: it does not touch the database or
// Redis, so a 200 means the process is up, not that dependencies are.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
