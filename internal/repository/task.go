package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/taskpulse/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "status", "type", "priority", "color",
	"company", "recurrence", "recurrence_end_date", "due_date", "start_time",
	"end_time", "created_by", "assigned_to", "progress_notes",
	"reminders_sent", "reminders", "version", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Type,
		&task.Priority,
		&task.Color,
		&task.Company,
		&task.Recurrence,
		&task.RecurrenceEndDate,
		&task.DueDate,
		&task.StartTime,
		&task.EndTime,
		&task.CreatedBy,
		&task.AssignedTo,
		&task.ProgressNotes,
		&task.RemindersSent,
		&task.Reminders,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// Create inserts a new task and returns it with ID, Version and timestamps
// populated.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task.AssignedTo == nil {
		task.AssignedTo = []string{}
	}
	if task.ProgressNotes == nil {
		task.ProgressNotes = []domain.ProgressNote{}
	}
	if task.RemindersSent == nil {
		task.RemindersSent = map[string]bool{}
	}
	if task.Reminders == nil {
		task.Reminders = []string{}
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "status", "type", "priority", "color",
			"company", "recurrence", "recurrence_end_date", "due_date",
			"start_time", "end_time", "created_by", "assigned_to",
			"progress_notes", "reminders_sent", "reminders",
		).
		Values(
			task.Title,
			task.Description,
			task.Status,
			task.Type,
			task.Priority,
			task.Color,
			task.Company,
			task.Recurrence,
			task.RecurrenceEndDate,
			task.DueDate,
			task.StartTime,
			task.EndTime,
			task.CreatedBy,
			task.AssignedTo,
			task.ProgressNotes,
			task.RemindersSent,
			task.Reminders,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&task.ID, &task.Version, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// Update persists all mutable task fields with an optimistic version check.
// Returns ErrTaskConflict if the row was modified since the task was read.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Set("type", task.Type).
		Set("priority", task.Priority).
		Set("color", task.Color).
		Set("company", task.Company).
		Set("recurrence", task.Recurrence).
		Set("recurrence_end_date", task.RecurrenceEndDate).
		Set("due_date", task.DueDate).
		Set("start_time", task.StartTime).
		Set("end_time", task.EndTime).
		Set("assigned_to", task.AssignedTo).
		Set("progress_notes", task.ProgressNotes).
		Set("reminders", task.Reminders).
		Set("version", task.Version+1).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":      task.ID,
			"version": task.Version,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for task %s: %w", task.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskConflict
	}

	task.Version++
	return nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// MarkOverdue transitions a single stale task to overdue. The WHERE clause
// repeats the staleness conditions so a concurrent completion wins the race.
// Returns true if the row was actually updated.
func (r *TaskRepository) MarkOverdue(ctx context.Context, taskID string) (bool, error) {
	query, args, err := psql.
		Update("tasks").
		Set("status", domain.TaskStatusOverdue).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		Where("due_date < NOW()").
		Where(sq.NotEq{"status": []domain.TaskStatus{
			domain.TaskStatusCompleted,
			domain.TaskStatusOverdue,
		}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build MarkOverdue query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark task overdue: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkAllOverdue transitions every stale task to overdue in one statement.
// Used by the check-overdue command.
func (r *TaskRepository) MarkAllOverdue(ctx context.Context) (int64, error) {
	query, args, err := psql.
		Update("tasks").
		Set("status", domain.TaskStatusOverdue).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where("due_date < NOW()").
		Where(sq.NotEq{"status": []domain.TaskStatus{
			domain.TaskStatusCompleted,
			domain.TaskStatusOverdue,
		}}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build MarkAllOverdue query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark tasks overdue: %w", err)
	}

	return tag.RowsAffected(), nil
}
