// internal/repository/notification_repo.go
package repository

import (
	"context"

	"taskmarket/internal/domain"
)

// NotificationRepository defines the interface for notification data operations.
type NotificationRepository interface {
	// CreateNotification adds a new notification using the provided DBExecutor.
	CreateNotification(ctx context.Context, q DBExecutor, notification *domain.Notification) error
	// ListNotificationsByRecipient retrieves a user's notifications, newest first.
	ListNotificationsByRecipient(ctx context.Context, q DBExecutor, username string) ([]domain.Notification, error)
	// MarkAllRead flags every unread notification of the user as read and
	// returns the number of rows updated.
	MarkAllRead(ctx context.Context, q DBExecutor, username string) (int64, error)
}
