package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/taskpulse/internal/domain"
)

// TaskFilter holds all supported filters for task listing.
type TaskFilter struct {
	CreatorID  *string            // Only tasks created by this principal
	AssigneeID *string            // Only tasks where this principal is an assignee
	InvolvedID *string            // Tasks the principal created or is assigned to
	Type       *domain.TaskType   // Optional: filter by task type
	Status     *domain.TaskStatus // Optional: filter by status
	DueFrom    *time.Time         // Optional: due date lower bound (inclusive)
	DueUntil   *time.Time         // Optional: due date upper bound (inclusive)
}

// List retrieves tasks matching the filter, ordered by due date then
// creation time.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error) {
	qb := psql.Select(taskColumns...).From("tasks")

	if filter.InvolvedID != nil {
		qb = qb.Where(sq.Or{
			sq.Eq{"created_by": *filter.InvolvedID},
			sq.Expr("? = ANY(assigned_to)", *filter.InvolvedID),
		})
	}
	if filter.CreatorID != nil {
		qb = qb.Where(sq.Eq{"created_by": *filter.CreatorID})
	}
	if filter.AssigneeID != nil {
		qb = qb.Where(sq.Expr("? = ANY(assigned_to)", *filter.AssigneeID))
	}
	if filter.Type != nil {
		qb = qb.Where(sq.Eq{"type": *filter.Type})
	}
	if filter.Status != nil {
		qb = qb.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.DueFrom != nil {
		qb = qb.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueUntil != nil {
		qb = qb.Where("due_date <= ?", *filter.DueUntil)
	}

	qb = qb.OrderBy("due_date ASC NULLS LAST", "created_at ASC")

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	return scanTasks(rows)
}
