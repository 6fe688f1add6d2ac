package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// JSON writes the uniform API envelope
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
	}

	c.JSON(status, gin.H{
		"message":   message,
		"data":      data,
		"errors":    errMessage,
		"status":    http.StatusText(status),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
