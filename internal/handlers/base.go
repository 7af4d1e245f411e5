package handlers

import (
	"github.com/gin-gonic/gin"
)

// respondError writes the uniform error shape used by every API handler.
func respondError(c *gin.Context, code int, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(code, body)
}
