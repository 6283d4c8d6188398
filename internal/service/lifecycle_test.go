package service

import (
	"testing"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    = "owner-1"
	assigneeID = "assignee-1"
	strangerID = "stranger-1"
)

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }
func strPtr(s string) *string                          { return &s }

func delegatedTask() *domain.Task {
	return &domain.Task{
		ID:         "task-1",
		Title:      "Prepare quarterly report",
		Status:     domain.TaskStatusPending,
		Type:       domain.TaskTypeDelegated,
		Priority:   domain.TaskPriorityMedium,
		CreatedBy:  ownerID,
		AssignedTo: []string{assigneeID},
	}
}

func TestApplyPatch_OwnerStatusChange(t *testing.T) {
	task := delegatedTask()
	now := time.Now()

	result, err := ApplyPatch(task, ownerID, TaskPatch{
		Status: statusPtr(domain.TaskStatusCompleted),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, task.Status)
	assert.True(t, result.NotifyAssignees)
	assert.Equal(t, []string{"status"}, result.ChangedFields)
}

func TestApplyPatch_OwnerFieldUpdateNoNotify(t *testing.T) {
	task := delegatedTask()

	result, err := ApplyPatch(task, ownerID, TaskPatch{
		Title:       strPtr("Prepare annual report"),
		Description: strPtr("Full year numbers"),
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Prepare annual report", task.Title)
	assert.False(t, result.NotifyAssignees)
	assert.ElementsMatch(t, []string{"title", "description"}, result.ChangedFields)
}

func TestApplyPatch_OwnerInvalidStatus(t *testing.T) {
	task := delegatedTask()

	_, err := ApplyPatch(task, ownerID, TaskPatch{
		Status: statusPtr(domain.TaskStatus("archived")),
	}, time.Now())

	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
}

func TestApplyPatch_AssigneeDoneBecomesUnderReview(t *testing.T) {
	task := delegatedTask()

	result, err := ApplyPatch(task, assigneeID, TaskPatch{
		Status: statusPtr(domain.TaskStatusDone),
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusUnderReview, task.Status)
	assert.True(t, result.NotifyAssignees)
}

func TestApplyPatch_AssigneeDirectStatuses(t *testing.T) {
	for _, status := range []domain.TaskStatus{domain.TaskStatusAccepted, domain.TaskStatusInProgress} {
		t.Run(string(status), func(t *testing.T) {
			task := delegatedTask()

			_, err := ApplyPatch(task, assigneeID, TaskPatch{Status: statusPtr(status)}, time.Now())
			require.NoError(t, err)
			assert.Equal(t, status, task.Status)
		})
	}
}

func TestApplyPatch_AssigneeForbiddenStatus(t *testing.T) {
	for _, status := range []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusUnderReview,
		domain.TaskStatusCompleted,
		domain.TaskStatusOverdue,
	} {
		t.Run(string(status), func(t *testing.T) {
			task := delegatedTask()
			task.Status = domain.TaskStatusInProgress

			_, err := ApplyPatch(task, assigneeID, TaskPatch{Status: statusPtr(status)}, time.Now())

			require.ErrorIs(t, err, domain.ErrAssigneeStatus)
			assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		})
	}
}

func TestApplyPatch_AssigneeProgressNoteSilent(t *testing.T) {
	task := delegatedTask()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	result, err := ApplyPatch(task, assigneeID, TaskPatch{
		ProgressNote: strPtr("halfway there"),
	}, now)
	require.NoError(t, err)

	require.Len(t, task.ProgressNotes, 1)
	assert.Equal(t, assigneeID, task.ProgressNotes[0].Author)
	assert.Equal(t, "halfway there", task.ProgressNotes[0].Note)
	assert.Equal(t, now, task.ProgressNotes[0].Timestamp)
	assert.False(t, result.NotifyAssignees)
}

func TestApplyPatch_AssigneeIgnoresOwnerOnlyFields(t *testing.T) {
	task := delegatedTask()

	_, err := ApplyPatch(task, assigneeID, TaskPatch{
		Title:        strPtr("hijacked"),
		ProgressNote: strPtr("note"),
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "Prepare quarterly report", task.Title)
	assert.Len(t, task.ProgressNotes, 1)
}

func TestApplyPatch_AssigneeEmptyUpdate(t *testing.T) {
	task := delegatedTask()

	_, err := ApplyPatch(task, assigneeID, TaskPatch{
		Title: strPtr("only an owner field"),
	}, time.Now())

	require.ErrorIs(t, err, domain.ErrAssigneeEmptyUpdate)
}

func TestApplyPatch_StrangerRejected(t *testing.T) {
	task := delegatedTask()

	_, err := ApplyPatch(task, strangerID, TaskPatch{
		Status: statusPtr(domain.TaskStatusAccepted),
	}, time.Now())

	require.ErrorIs(t, err, domain.ErrOnlyOwner)
}

func TestApplyPatch_PersonalTaskAssigneeRejected(t *testing.T) {
	task := delegatedTask()
	task.Type = domain.TaskTypePersonal

	_, err := ApplyPatch(task, assigneeID, TaskPatch{
		Status: statusPtr(domain.TaskStatusAccepted),
	}, time.Now())

	require.ErrorIs(t, err, domain.ErrOnlyOwner)
}
