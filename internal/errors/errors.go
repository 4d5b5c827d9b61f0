package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error. It is returned as the body of
// failed HTTP requests and as a GraphQL error, where Code is exposed under
// extensions.code.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the error the APIError was built from, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Extensions implements graphql-go's gqlerrors.ExtendedError.
func (e *APIError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.Details != nil {
		ext["details"] = e.Details
	}
	return ext
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates an APIError that keeps err as its cause.
func Wrap(code, message string, err error) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// Predefined errors
var (
	ErrNotFound      = NewAPIError(ErrCodeNotFound, "Resource not found")
	ErrInvalidInput  = NewAPIError(ErrCodeInvalidInput, "Invalid request body")
	ErrInternalError = NewAPIError(ErrCodeInternalError, "Internal server error")
)

// FromError converts err into an APIError. Errors that already are APIErrors
// are returned as is; gorm's translated errors get their matching code and
// everything else becomes an internal error that does not leak the cause.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(ErrCodeNotFound, "Resource not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(ErrCodeAlreadyExists, "Resource already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Wrap(ErrCodeConflict, "Referenced resource does not exist", err)
	default:
		return Wrap(ErrCodeInternalError, "Internal server error", err)
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
