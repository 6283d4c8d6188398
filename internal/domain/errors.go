package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskConflict = errors.New("task was modified concurrently")

	// Permission errors
	ErrOnlyOwner           = errors.New("only the task owner can edit this task")
	ErrAssigneeStatus      = errors.New("invalid status update for assignee")
	ErrAssigneeEmptyUpdate = errors.New("assignees can only update status or add progress notes")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is inactive")
	ErrInvalidToken = errors.New("invalid authentication token")

	// Validation errors
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidType       = errors.New("invalid task type")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrInvalidRecurrence = errors.New("invalid task recurrence")

	// Notification errors. Delivery failures are logged and swallowed by
	// callers; they never block task persistence.
	ErrNotificationFailed = errors.New("notification delivery failed")
)
