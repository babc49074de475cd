package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// The error taxonomy maps one-to-one onto HTTP statuses: validation 422,
// authorization 403, not-found 404, business-rule conflict 400 and
// everything else 500.

// ValidationError describes malformed or missing input with optional
// field-level messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with field messages.
func NewValidation(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// AuthorizationError signals an authenticated but forbidden action.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorization(message string) *AuthorizationError {
	return &AuthorizationError{Message: message}
}

// NotFoundError signals a missing resource.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// ConflictError signals a business-rule violation. Extra carries additional
// envelope fields such as the blocking active-task count.
type ConflictError struct {
	Message string
	Extra   map[string]any
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func NewConflictWithExtra(message string, extra map[string]any) *ConflictError {
	return &ConflictError{Message: message, Extra: extra}
}

// Respond converts err into the JSON envelope and writes it with the status
// matching its taxonomy class. Unknown errors surface as 500 with the
// underlying message in the error field.
func Respond(c *gin.Context, message string, err error) {
	var (
		validationErr    *ValidationError
		authorizationErr *AuthorizationError
		notFoundErr      *NotFoundError
		conflictErr      *ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"success": false, "message": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			body["errors"] = validationErr.Fields
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &authorizationErr):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": authorizationErr.Message,
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": notFoundErr.Message,
		})
	case errors.As(err, &conflictErr):
		body := gin.H{"success": false, "message": conflictErr.Message}
		for k, v := range conflictErr.Extra {
			body[k] = v
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}
}

// Unauthorized writes a 401 envelope. Session-auth failures sit outside the
// request taxonomy but still use the uniform envelope shape.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// Forbidden writes a 403 envelope.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"message": message,
	})
}

// BadRequest writes a 422 envelope for malformed request bodies.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request body"
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": message,
	})
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": message,
	})
}
