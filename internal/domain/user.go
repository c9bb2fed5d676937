// internal/domain/user.go
package domain

import "time"

// User represents a registered marketplace user. Users are keyed by their
// unique username; balances are whole-token counters mutated only by
// confirm-payment and burn.
type User struct {
	Username     string    `db:"username" json:"username"`         // Unique username, primary key
	PasswordHash string    `db:"password_hash" json:"-"`           // bcrypt hash, never serialized
	BlueBalance  int64     `db:"blue_balance" json:"blue_balance"` // Earned/spendable BLUE tokens
	RedBalance   int64     `db:"red_balance" json:"red_balance"`   // Accumulated RED counter
	CreatedAt    time.Time `db:"created_at" json:"created_at"`     // Timestamp of registration
}

// NewUser creates a new User instance with zero balances.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
