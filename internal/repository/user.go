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

var userColumns = []string{"id", "name", "email", "token", "is_active", "created_at"}

// UserRepository handles database operations for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Token,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// GetByToken finds a user by authentication token.
func (r *UserRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByToken query: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query: %w", err)
	}

	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDs resolves a set of principal ids to user records. Ids with no
// matching row are silently absent from the result.
func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []string) ([]*domain.User, error) {
	if len(userIDs) == 0 {
		return []*domain.User{}, nil
	}

	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDs query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return users, nil
}
