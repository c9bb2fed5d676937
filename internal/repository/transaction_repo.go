// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"taskmarket/internal/domain"
)

// TransactionRepository defines the interface for the append-only audit log.
type TransactionRepository interface {
	// CreateTransaction adds a new transaction record to the database using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListTransactionsByUser retrieves a user's transaction history, newest first.
	ListTransactionsByUser(ctx context.Context, q DBExecutor, username string) ([]domain.Transaction, error)
}
