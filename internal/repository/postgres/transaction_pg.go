// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"

	"github.com/jmoiron/sqlx"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new transaction record into the database using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (username, type, description, blue_change, red_change, related_publication_id, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.Username,
		transaction.Type,
		transaction.Description,
		transaction.BlueChange,
		transaction.RedChange,
		transaction.RelatedPublicationID,
		transaction.CreatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactionsByUser retrieves a user's transaction history, newest first.
func (r *TransactionRepository) ListTransactionsByUser(ctx context.Context, q repository.DBExecutor, username string) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `SELECT id, username, type, description, blue_change, red_change, related_publication_id, created_at
              FROM transactions WHERE username = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &transactions, query, username); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user '%s': %w", username, err)
	}
	return transactions, nil
}
