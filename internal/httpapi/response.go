package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tokenRelay/internal/model"
)

// Envelope is the response shape shared by both services.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a successful envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with an explicit status.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

// FailError writes a failure envelope whose status follows the error kind.
func FailError(c *gin.Context, err error) {
	Fail(c, StatusFor(err), err.Error())
}

// StatusFor maps error kinds to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidAddress),
		errors.Is(err, model.ErrUnauthorized),
		errors.Is(err, model.ErrMissingField),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidParam):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
