package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/mtlprog/taskpulse/internal/repository"
)

// TaskStore is the task persistence contract consumed by the services.
// *repository.TaskRepository is the production implementation.
type TaskStore interface {
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, taskID string) error
	List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error)
	MarkOverdue(ctx context.Context, taskID string) (bool, error)
	FindReminderCandidates(ctx context.Context, label string) ([]*domain.Task, error)
	MarkReminderSent(ctx context.Context, taskID, label string) error
}

// UserDirectory resolves principal ids to user records for building
// notification recipient lists.
type UserDirectory interface {
	GetByIDs(ctx context.Context, userIDs []string) ([]*domain.User, error)
}

// Mailer delivers notifications. Failures are logged and swallowed by the
// services; they never block task persistence.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// TaskService coordinates task operations: lifecycle mutations, the overdue
// read-path correction, and assignee notifications.
type TaskService struct {
	store  TaskStore
	users  UserDirectory
	mailer Mailer
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(store TaskStore, users UserDirectory, mailer Mailer) *TaskService {
	return &TaskService{
		store:  store,
		users:  users,
		mailer: mailer,
		now:    time.Now,
	}
}

// CreateTaskParams holds the fields for task creation.
type CreateTaskParams struct {
	Title             string
	Description       string
	Type              domain.TaskType
	Priority          domain.TaskPriority
	Color             string
	Company           string
	Recurrence        domain.Recurrence
	RecurrenceEndDate *time.Time
	DueDate           *time.Time
	StartTime         string
	EndTime           string
	CreatorID         string
	AssignedTo        []string
	Reminders         []string
}

// CreateTask creates a task owned by the caller. Delegated and meeting
// tasks with assignees trigger a creation notification to every assignee.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	taskType := params.Type
	if taskType == "" {
		taskType = domain.TaskTypePersonal
	}
	if !taskType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, taskType)
	}

	priority := params.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, priority)
	}

	recurrence := params.Recurrence
	if recurrence == "" {
		recurrence = domain.RecurrenceNone
	}
	if !recurrence.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRecurrence, recurrence)
	}

	task := &domain.Task{
		Title:             params.Title,
		Description:       params.Description,
		Status:            domain.TaskStatusPending,
		Type:              taskType,
		Priority:          priority,
		Color:             params.Color,
		Company:           params.Company,
		Recurrence:        recurrence,
		RecurrenceEndDate: params.RecurrenceEndDate,
		DueDate:           params.DueDate,
		StartTime:         params.StartTime,
		EndTime:           params.EndTime,
		CreatedBy:         params.CreatorID,
		AssignedTo:        params.AssignedTo,
		Reminders:         params.Reminders,
	}

	task, err := s.store.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	slog.Info("task created",
		"task_id", task.ID,
		"type", task.Type,
		"creator_id", task.CreatedBy,
	)

	if task.Type.Assignable() && len(task.AssignedTo) > 0 {
		s.notifyCreated(ctx, task)
	}

	return task, nil
}

// UpdateTask applies a mutation through the lifecycle engine, persists the
// result with an optimistic version check, and notifies assignees when the
// engine signals it.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID string, patch TaskPatch) (*domain.Task, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	result, err := ApplyPatch(task, actorID, patch, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, result.Task); err != nil {
		return nil, err
	}

	slog.Info("task updated",
		"task_id", task.ID,
		"actor_id", actorID,
		"status", task.Status,
		"changed_fields", result.ChangedFields,
	)

	if result.NotifyAssignees && len(task.AssignedTo) > 0 {
		subject := fmt.Sprintf("Task Updated: %s", task.Title)
		body := fmt.Sprintf(
			"The task %q has been updated.\nUpdated fields: %s\nCurrent status: %s\nDescription: %s",
			task.Title, strings.Join(result.ChangedFields, ", "), task.Status, task.Description,
		)
		s.notifyAssignees(ctx, task, subject, body)
	}

	return task, nil
}

// GetTask retrieves a task the caller created or is assigned to.
func (s *TaskService) GetTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsCreatedBy(actorID) && !task.IsAssignedTo(actorID) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrOnlyOwner, taskID)
	}
	return task, nil
}

// DeleteTask removes a task. Owner only.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.store.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.IsCreatedBy(actorID) {
		return fmt.Errorf("%w: task %s", domain.ErrOnlyOwner, taskID)
	}

	if err := s.store.Delete(ctx, taskID); err != nil {
		return err
	}

	slog.Info("task deleted", "task_id", taskID, "actor_id", actorID)
	return nil
}

// ListTasks returns tasks matching the filter, lazily correcting stale
// statuses to overdue. The correction is persisted and the returned set
// reflects it; no notification is sent for this passive transition.
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, task := range tasks {
		if !task.IsStale(now) {
			continue
		}
		updated, err := s.store.MarkOverdue(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("mark task %s overdue: %w", task.ID, err)
		}
		if updated {
			task.Status = domain.TaskStatusOverdue
			slog.Info("task auto-marked overdue", "task_id", task.ID)
		}
	}

	return tasks, nil
}

// ListTasksByDate returns the caller's tasks due on the given calendar day.
func (s *TaskService) ListTasksByDate(ctx context.Context, userID string, day time.Time) ([]*domain.Task, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	return s.ListTasks(ctx, repository.TaskFilter{
		InvolvedID: &userID,
		DueFrom:    &start,
		DueUntil:   &end,
	})
}

// notifyCreated sends the creation notification for delegated/meeting tasks.
func (s *TaskService) notifyCreated(ctx context.Context, task *domain.Task) {
	var subject, body string
	switch task.Type {
	case domain.TaskTypeDelegated:
		subject = fmt.Sprintf("New Delegated Task: %s", task.Title)
		body = fmt.Sprintf(
			"You have been assigned a new task: %s\nDescription: %s\nDue: %s\nCompany: %s",
			task.Title, task.Description, formatDueDate(task.DueDate), task.Company,
		)
	case domain.TaskTypeMeeting:
		subject = fmt.Sprintf("Meeting Scheduled: %s", task.Title)
		body = fmt.Sprintf(
			"You have been invited to a meeting: %s\nDescription: %s\nDate: %s\nTime: %s - %s",
			task.Title, task.Description, formatDueDate(task.DueDate), task.StartTime, task.EndTime,
		)
	default:
		return
	}

	s.notifyAssignees(ctx, task, subject, body)
}

// notifyAssignees resolves assignee emails and delivers one message to all
// of them. Delivery failures are logged, never propagated.
func (s *TaskService) notifyAssignees(ctx context.Context, task *domain.Task, subject, body string) {
	users, err := s.users.GetByIDs(ctx, task.AssignedTo)
	if err != nil {
		slog.Error("failed to resolve assignees for notification",
			"task_id", task.ID,
			"error", err,
		)
		return
	}

	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	if len(emails) == 0 {
		return
	}

	if err := s.mailer.Send(ctx, emails, subject, body); err != nil {
		slog.Error("failed to send task notification",
			"task_id", task.ID,
			"recipients", len(emails),
			"error", err,
		)
		return
	}

	slog.Info("task notification sent", "task_id", task.ID, "recipients", len(emails))
}

func formatDueDate(dueDate *time.Time) string {
	if dueDate == nil {
		return ""
	}
	return dueDate.UTC().Format("2006-01-02")
}
