package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/taskpulse/internal/domain"
)

// FindReminderCandidates returns tasks that may still need the reminder for
// the given window label: a due date is set, the status is neither completed
// nor overdue, and the latch for the label has not fired.
func (r *TaskRepository) FindReminderCandidates(ctx context.Context, label string) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where("due_date IS NOT NULL").
		Where(sq.NotEq{"status": []domain.TaskStatus{
			domain.TaskStatusCompleted,
			domain.TaskStatusOverdue,
		}}).
		Where("COALESCE((reminders_sent ->> ?)::boolean, false) = false", label).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindReminderCandidates query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminder candidates: %w", err)
	}

	return scanTasks(rows)
}

// MarkReminderSent latches the reminder for the given window label. The
// jsonb merge only ever adds a true entry, so the latch is monotonic.
func (r *TaskRepository) MarkReminderSent(ctx context.Context, taskID, label string) error {
	query, args, err := psql.
		Update("tasks").
		Set("reminders_sent", sq.Expr("reminders_sent || jsonb_build_object(?::text, true)", label)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build MarkReminderSent query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
