// internal/domain/notification.go
package domain

import "time"

// Notification is a message addressed to the counterparty of a lifecycle
// transition. Exactly one is created per transition; the only mutation is
// the bulk mark-read operation.
type Notification struct {
	ID                int64     `db:"id" json:"id"`                               // Primary key, BIGSERIAL in DB
	RecipientUsername string    `db:"recipient_username" json:"recipient_username"` // Addressee
	Message           string    `db:"message" json:"message"`                     // Rendered notification text
	IsRead            bool      `db:"is_read" json:"is_read"`                     // Flipped by mark-all-read
	CreatedAt         time.Time `db:"created_at" json:"created_at"`               // Timestamp of creation
}

// NewNotification creates a new unread Notification instance.
func NewNotification(recipient, message string) *Notification {
	return &Notification{
		RecipientUsername: recipient,
		Message:           message,
		CreatedAt:         time.Now().UTC(),
	}
}
