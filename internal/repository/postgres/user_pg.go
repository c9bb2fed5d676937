// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"
	"taskmarket/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
// A duplicate username surfaces as util.ErrDuplicateEntry.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (username, password_hash, blue_balance, red_balance, created_at)
              VALUES ($1, $2, $3, $4, $5)`
	_, err := q.ExecContext(ctx, query, user.Username, user.PasswordHash, user.BlueBalance, user.RedBalance, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT username, password_hash, blue_balance, red_balance, created_at FROM users WHERE username = $1`
	err := q.GetContext(ctx, &user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username '%s': %w", username, err)
	}
	return &user, nil
}

// GetUserByUsernameForUpdate retrieves a user row with FOR UPDATE, locking it
// until the surrounding transaction ends.
func (r *UserRepository) GetUserByUsernameForUpdate(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT username, password_hash, blue_balance, red_balance, created_at FROM users WHERE username = $1 FOR UPDATE`
	err := q.GetContext(ctx, &user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user '%s': %w", username, err)
	}
	return &user, nil
}

// UpdateUserBalances applies signed deltas to both balances of a user.
func (r *UserRepository) UpdateUserBalances(ctx context.Context, q repository.DBExecutor, username string, blueDelta, redDelta int64) error {
	query := `UPDATE users SET blue_balance = blue_balance + $1, red_balance = red_balance + $2 WHERE username = $3`
	result, err := q.ExecContext(ctx, query, blueDelta, redDelta, username)
	if err != nil {
		return fmt.Errorf("failed to update balances for user '%s': %w", username, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating balances for user '%s': %w", username, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected when updating balances for user '%s': %w", username, util.ErrUserNotFound)
	}
	return nil
}
