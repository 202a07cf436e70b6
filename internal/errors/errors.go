package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds carried alongside the message so clients can branch
// without parsing text.
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeStorage      = "STORAGE_ERROR"
)

// APIError is the wire shape of every error response.
type APIError struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// RespondWithError sends an error response with the given status.
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, APIError{Code: code, Error: message})
}

// Unauthorized sends a 401 response: no, invalid, or expired token.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 response: authenticated but not authorized.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// BadRequest sends a 400 response for missing or malformed input.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, ErrCodeInvalidInput, message)
}

// Conflict sends a 409 response for unique-constraint violations.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, ErrCodeConflict, message)
}

// InternalError sends a 500 response. Detail stays server-side.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, ErrCodeStorage, message)
}
