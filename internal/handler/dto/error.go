package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/taskpulse/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Task errors
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrTaskConflict):
		return http.StatusConflict, "TASK_CONFLICT", message

	// Permission errors
	case errors.Is(err, domain.ErrOnlyOwner):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message
	case errors.Is(err, domain.ErrAssigneeStatus):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message
	case errors.Is(err, domain.ErrAssigneeEmptyUpdate):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message

	// User errors
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, "INVALID_TOKEN", message
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, "USER_INACTIVE", message
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_TOKEN", message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidType):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidPriority):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidRecurrence):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
