package domain_test

import (
	"testing"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestEventInstant(t *testing.T) {
	due := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dueDate   *time.Time
		startTime string
		want      time.Time
		wantOK    bool
	}{
		{
			name:   "no due date",
			wantOK: false,
		},
		{
			name:    "due date without start time",
			dueDate: timePtr(due),
			want:    due,
			wantOK:  true,
		},
		{
			name:      "start time overrides time of day",
			dueDate:   timePtr(due),
			startTime: "14:45",
			want:      time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "midnight start time",
			dueDate:   timePtr(due),
			startTime: "00:00",
			want:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			wantOK:    true,
		},
		{
			name:      "malformed start time falls back to due date",
			dueDate:   timePtr(due),
			startTime: "2pm",
			want:      due,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &domain.Task{DueDate: tt.dueDate, StartTime: tt.startTime}

			got, ok := task.EventInstant()
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		dueDate *time.Time
		status  domain.TaskStatus
		want    bool
	}{
		{"past due pending", timePtr(past), domain.TaskStatusPending, true},
		{"past due in progress", timePtr(past), domain.TaskStatusInProgress, true},
		{"past due under review", timePtr(past), domain.TaskStatusUnderReview, true},
		{"past due completed", timePtr(past), domain.TaskStatusCompleted, false},
		{"past due already overdue", timePtr(past), domain.TaskStatusOverdue, false},
		{"future due pending", timePtr(future), domain.TaskStatusPending, false},
		{"no due date", nil, domain.TaskStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &domain.Task{DueDate: tt.dueDate, Status: tt.status}
			assert.Equal(t, tt.want, task.IsStale(now))
		})
	}
}

func TestTaskTypeAssignable(t *testing.T) {
	assert.True(t, domain.TaskTypeDelegated.Assignable())
	assert.True(t, domain.TaskTypeMeeting.Assignable())
	assert.False(t, domain.TaskTypePersonal.Assignable())
	assert.False(t, domain.TaskTypeWeekOff.Assignable())
}

func TestIsAssignedTo(t *testing.T) {
	task := &domain.Task{AssignedTo: []string{"u1", "u2"}}

	assert.True(t, task.IsAssignedTo("u2"))
	assert.False(t, task.IsAssignedTo("u3"))
	assert.False(t, (&domain.Task{}).IsAssignedTo("u1"))
}
