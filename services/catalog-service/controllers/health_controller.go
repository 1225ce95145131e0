package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness together with the backend the process was started with.
func Health(serviceName, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": serviceName,
			"backend": backend,
		})
	}
}
