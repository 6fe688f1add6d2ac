package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error shape handlers translate failures into
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	InActiveUserError      = New("user is inactive", http.StatusUnauthorized)
)

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: message: %s", e.Message)
}

// Is implements the errors.Is interface for comparing api errors
func (e *Error) Is(target error) bool {
	var apiErr *Error
	if !errors.As(target, &apiErr) {
		return false
	}
	return e.Message == apiErr.Message && e.Status == apiErr.Status
}

// GetUniqueContraintError maps a postgres unique-violation to a friendly 400
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return New("email already exists", http.StatusBadRequest)
	case strings.Contains(msg, "telephone"), strings.Contains(msg, "phone"):
		return New("telephone already exists", http.StatusBadRequest)
	case strings.Contains(msg, "template_key"):
		return New("template key already exists", http.StatusBadRequest)
	default:
		return New(msg, http.StatusBadRequest)
	}
}

// ErrorHandler is handed to the rate limiter for over-limit responses
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many requests, try again later",
		"status":  http.StatusTooManyRequests,
	})
	c.Abort()
}
