// internal/repository/postgres/notification_pg.go
package postgres

import (
	"context"
	"fmt"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"

	"github.com/jmoiron/sqlx"
)

// NotificationRepository implements repository.NotificationRepository for PostgreSQL.
type NotificationRepository struct {
	// Methods receive a DBExecutor directly, so no connection is held here.
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &NotificationRepository{}
}

// CreateNotification inserts a new notification using the provided DBExecutor.
func (r *NotificationRepository) CreateNotification(ctx context.Context, q repository.DBExecutor, notification *domain.Notification) error {
	query := `INSERT INTO notifications (recipient_username, message, is_read, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		notification.RecipientUsername,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt,
	).Scan(&notification.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotificationsByRecipient retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListNotificationsByRecipient(ctx context.Context, q repository.DBExecutor, username string) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	query := `SELECT id, recipient_username, message, is_read, created_at
              FROM notifications WHERE recipient_username = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &notifications, query, username); err != nil {
		return nil, fmt.Errorf("failed to list notifications for '%s': %w", username, err)
	}
	return notifications, nil
}

// MarkAllRead flags every unread notification of the user as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, q repository.DBExecutor, username string) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE recipient_username = $1 AND is_read = FALSE`
	result, err := q.ExecContext(ctx, query, username)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for '%s': %w", username, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after marking notifications read for '%s': %w", username, err)
	}
	return rowsAffected, nil
}
