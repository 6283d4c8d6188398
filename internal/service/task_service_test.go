package service

import (
	"context"
	"testing"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/mtlprog/taskpulse/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTaskService(store *fakeStore, mailer *fakeMailer, now time.Time) *TaskService {
	svc := NewTaskService(store, newFakeDirectory(
		&domain.User{ID: assigneeID, Name: "Assignee", Email: "assignee@example.com"},
		&domain.User{ID: "assignee-2", Name: "Second", Email: "second@example.com"},
	), mailer)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateTask_DelegatedNotifiesAssignees(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := newTestTaskService(store, mailer, time.Now())

	task, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Title:      "Prepare quarterly report",
		Type:       domain.TaskTypeDelegated,
		CreatorID:  ownerID,
		AssignedTo: []string{assigneeID, "assignee-2"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"assignee@example.com", "second@example.com"}, mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "New Delegated Task")
}

func TestCreateTask_PersonalNoNotification(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := newTestTaskService(store, mailer, time.Now())

	_, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Title:     "Dentist",
		CreatorID: ownerID,
	})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestCreateTask_InvalidType(t *testing.T) {
	svc := newTestTaskService(newFakeStore(), &fakeMailer{}, time.Now())

	_, err := svc.CreateTask(context.Background(), CreateTaskParams{
		Title:     "Bad",
		Type:      domain.TaskType("sprint"),
		CreatorID: ownerID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestUpdateTask_OwnerCompletedNotifies(t *testing.T) {
	task := delegatedTask()
	store := newFakeStore(task)
	mailer := &fakeMailer{}
	svc := newTestTaskService(store, mailer, time.Now())

	updated, err := svc.UpdateTask(context.Background(), task.ID, ownerID, TaskPatch{
		Status: statusPtr(domain.TaskStatusCompleted),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	assert.Empty(t, updated.ProgressNotes)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Subject, "Task Updated")
	assert.Contains(t, mailer.sent[0].Body, "status")
}

func TestUpdateTask_ProgressNoteDoesNotNotify(t *testing.T) {
	task := delegatedTask()
	store := newFakeStore(task)
	mailer := &fakeMailer{}
	svc := newTestTaskService(store, mailer, time.Now())

	updated, err := svc.UpdateTask(context.Background(), task.ID, assigneeID, TaskPatch{
		ProgressNote: strPtr("started the draft"),
	})
	require.NoError(t, err)

	assert.Len(t, updated.ProgressNotes, 1)
	assert.Empty(t, mailer.sent)
}

func TestUpdateTask_SendFailureDoesNotFailUpdate(t *testing.T) {
	task := delegatedTask()
	store := newFakeStore(task)
	mailer := &fakeMailer{sendErr: domain.ErrNotificationFailed}
	svc := newTestTaskService(store, mailer, time.Now())

	updated, err := svc.UpdateTask(context.Background(), task.ID, ownerID, TaskPatch{
		Status: statusPtr(domain.TaskStatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
}

func TestUpdateTask_VersionConflict(t *testing.T) {
	task := delegatedTask()
	store := newFakeStore(task)
	store.updateErr = domain.ErrTaskConflict
	svc := newTestTaskService(store, &fakeMailer{}, time.Now())

	_, err := svc.UpdateTask(context.Background(), task.ID, ownerID, TaskPatch{
		Title: strPtr("renamed"),
	})
	require.ErrorIs(t, err, domain.ErrTaskConflict)
}

func TestGetTask_AccessControl(t *testing.T) {
	task := delegatedTask()
	store := newFakeStore(task)
	svc := newTestTaskService(store, &fakeMailer{}, time.Now())
	ctx := context.Background()

	_, err := svc.GetTask(ctx, task.ID, ownerID)
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, task.ID, assigneeID)
	require.NoError(t, err)

	_, err = svc.GetTask(ctx, task.ID, strangerID)
	require.ErrorIs(t, err, domain.ErrOnlyOwner)
}

func TestDeleteTask_OwnerOnly(t *testing.T) {
	task := delegatedTask()
	store := newFakeStore(task)
	svc := newTestTaskService(store, &fakeMailer{}, time.Now())
	ctx := context.Background()

	err := svc.DeleteTask(ctx, task.ID, assigneeID)
	require.ErrorIs(t, err, domain.ErrOnlyOwner)

	err = svc.DeleteTask(ctx, task.ID, ownerID)
	require.NoError(t, err)

	err = svc.DeleteTask(ctx, task.ID, ownerID)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListTasks_MarksStaleOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	stale := delegatedTask()
	stale.ID = "task-stale"
	stale.DueDate = &past

	fresh := delegatedTask()
	fresh.ID = "task-fresh"
	fresh.DueDate = &future

	finished := delegatedTask()
	finished.ID = "task-finished"
	finished.DueDate = &past
	finished.Status = domain.TaskStatusCompleted

	store := newFakeStore(stale, fresh, finished)
	mailer := &fakeMailer{}
	svc := newTestTaskService(store, mailer, now)

	creator := ownerID
	tasks, err := svc.ListTasks(context.Background(), repository.TaskFilter{CreatorID: &creator})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	byID := make(map[string]*domain.Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
	}
	assert.Equal(t, domain.TaskStatusOverdue, byID["task-stale"].Status)
	assert.Equal(t, domain.TaskStatusPending, byID["task-fresh"].Status)
	assert.Equal(t, domain.TaskStatusCompleted, byID["task-finished"].Status)

	assert.Equal(t, []string{"task-stale"}, store.overdueIDs)
	assert.Empty(t, mailer.sent, "passive overdue transition must not notify")
}
