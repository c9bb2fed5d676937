// internal/repository/user_repo.go
package repository

import (
	"context"

	"taskmarket/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// GetUserByUsernameForUpdate retrieves a user row locked for the duration
	// of the surrounding transaction. Must be called with a transactional
	// executor.
	GetUserByUsernameForUpdate(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// UpdateUserBalances applies signed deltas to both balances of a user.
	UpdateUserBalances(ctx context.Context, q DBExecutor, username string, blueDelta, redDelta int64) error
}
