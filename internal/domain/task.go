package domain

import "time"

// TaskStatus represents the status of a task in the lifecycle state machine.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "pending"
	TaskStatusAccepted    TaskStatus = "accepted"
	TaskStatusInProgress  TaskStatus = "in_progress"
	TaskStatusDone        TaskStatus = "done"
	TaskStatusUnderReview TaskStatus = "under_review"
	TaskStatusCompleted   TaskStatus = "completed"
	TaskStatusOverdue     TaskStatus = "overdue"
)

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusAccepted, TaskStatusInProgress,
		TaskStatusDone, TaskStatusUnderReview, TaskStatusCompleted, TaskStatusOverdue:
		return true
	default:
		return false
	}
}

// ReminderEligible returns true if tasks in this status still receive
// reminders and overdue corrections. Completed and overdue tasks are out.
func (s TaskStatus) ReminderEligible() bool {
	return s != TaskStatusCompleted && s != TaskStatusOverdue
}

// TaskType governs who may mutate a task besides its creator.
type TaskType string

const (
	TaskTypePersonal  TaskType = "personal"
	TaskTypeDelegated TaskType = "delegated"
	TaskTypeMeeting   TaskType = "meeting"
	TaskTypeWeekOff   TaskType = "week-off"
)

// IsValid checks if the type is one of the allowed values.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypePersonal, TaskTypeDelegated, TaskTypeMeeting, TaskTypeWeekOff:
		return true
	default:
		return false
	}
}

// Assignable returns true if assignees may act on tasks of this type.
func (t TaskType) Assignable() bool {
	return t == TaskTypeDelegated || t == TaskTypeMeeting
}

// TaskPriority represents the priority level of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if the priority is one of the allowed values.
func (p TaskPriority) IsValid() bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

// Recurrence describes how a task repeats. Descriptive only; the core
// logic never expands recurrences.
type Recurrence string

const (
	RecurrenceNone     Recurrence = "none"
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekdays Recurrence = "weekdays"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceMonthly  Recurrence = "monthly"
	RecurrenceYearly   Recurrence = "yearly"
)

// IsValid checks if the recurrence is one of the allowed values.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekdays,
		RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// ProgressNote is a single append-only progress entry on a task.
type ProgressNote struct {
	Author    string    `json:"author"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is the central entity: a personal item, delegated assignment or meeting.
type Task struct {
	ID                string
	Title             string
	Description       string
	Status            TaskStatus
	Type              TaskType
	Priority          TaskPriority
	Color             string
	Company           string
	Recurrence        Recurrence
	RecurrenceEndDate *time.Time
	DueDate           *time.Time
	StartTime         string // time of day, "15:04"
	EndTime           string
	CreatedBy         string
	AssignedTo        []string
	ProgressNotes     []ProgressNote
	RemindersSent     map[string]bool
	Reminders         []string // advisory metadata; the scheduler uses fixed windows
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsCreatedBy checks if the task was created by the given principal.
func (t *Task) IsCreatedBy(userID string) bool {
	return t.CreatedBy == userID
}

// IsAssignedTo checks if the given principal is one of the assignees.
func (t *Task) IsAssignedTo(userID string) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// EventInstant derives the single absolute moment reminder logic treats
// as the deadline. With a start time the date portion of the due date is
// combined with the time of day in UTC; a malformed start time falls back
// to the bare due date. Tasks without a due date have no event instant.
func (t *Task) EventInstant() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	if t.StartTime != "" {
		if tod, err := time.Parse("15:04", t.StartTime); err == nil {
			d := t.DueDate.UTC()
			return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, time.UTC), true
		}
	}
	return *t.DueDate, true
}

// IsStale reports whether the task should be auto-corrected to overdue:
// the due date has passed and the status is neither completed nor overdue.
func (t *Task) IsStale(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status.ReminderEligible()
}

// ReminderSent reports whether the reminder latch for the given window
// label has already fired.
func (t *Task) ReminderSent(label string) bool {
	return t.RemindersSent[label]
}
