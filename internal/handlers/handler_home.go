package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerHomeRoutes registers the root informational route.
func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", home)
}

// home godoc
// @Summary Service information
// @Description Returns the service name and API base path
// @Tags home
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "finbooks",
		"apiBase": "/api/v1",
	})
}
