package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct tag validation on a request body.
func Validate(req interface{}) error {
	return validate.Struct(req)
}

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title             string     `json:"title"               validate:"required,min=1,max=200"`
	Description       string     `json:"description,omitempty"`
	Type              string     `json:"type,omitempty"               validate:"omitempty,oneof=personal delegated meeting week-off"`
	Priority          string     `json:"priority,omitempty"           validate:"omitempty,oneof=low medium high"`
	Color             string     `json:"color,omitempty"`
	Company           string     `json:"company,omitempty"`
	Recurrence        string     `json:"recurrence,omitempty"         validate:"omitempty,oneof=none daily weekdays weekly monthly yearly"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	StartTime         string     `json:"start_time,omitempty"         validate:"omitempty,datetime=15:04"`
	EndTime           string     `json:"end_time,omitempty"           validate:"omitempty,datetime=15:04"`
	AssignedTo        []string   `json:"assigned_to,omitempty"        validate:"omitempty,dive,uuid4"`
	Reminders         []string   `json:"reminders,omitempty"          validate:"omitempty,dive,oneof=1d 1h 30m 15m 5m"`
}

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}.
// Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title             *string    `json:"title,omitempty"              validate:"omitempty,min=1,max=200"`
	Description       *string    `json:"description,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Type              *string    `json:"type,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	Color             *string    `json:"color,omitempty"`
	Company           *string    `json:"company,omitempty"`
	Recurrence        *string    `json:"recurrence,omitempty"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	StartTime         *string    `json:"start_time,omitempty"         validate:"omitempty,datetime=15:04"`
	EndTime           *string    `json:"end_time,omitempty"           validate:"omitempty,datetime=15:04"`
	AssignedTo        []string   `json:"assigned_to,omitempty"        validate:"omitempty,dive,uuid4"`
	Reminders         []string   `json:"reminders,omitempty"          validate:"omitempty,dive,oneof=1d 1h 30m 15m 5m"`
	ProgressNote      *string    `json:"progress_note,omitempty"      validate:"omitempty,min=1"`
}

// ListTasksQuery represents query parameters for GET /tasks.
type ListTasksQuery struct {
	View   string // outgoing | incoming | "" (both)
	Type   string
	Status string
}
