package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error type surfaced to handlers: a user-facing message
// paired with the HTTP status it should be rendered with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInvalidPassword     = New("invalid email or password", http.StatusUnauthorized)
	InActiveUserError      = goerrors.New("user inactive")
)

// GetUniqueConstraintError maps a database unique-violation to the
// user-facing message for the offending column.
func GetUniqueConstraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return New("email already exists", http.StatusConflict)
	case strings.Contains(msg, "conversation_key"):
		return New("conversation already exists", http.StatusConflict)
	default:
		return New(msg, http.StatusConflict)
	}
}

// ErrorHandler renders rate-limit rejections for gin-rate-limit.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"success": false,
		"message": "Please wait before requesting a new OTP",
		"errors":  fmt.Sprintf("try again in %s", time.Until(info.ResetTime).Round(time.Second)),
	})
}
