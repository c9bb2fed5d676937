// internal/domain/transaction.go
package domain

import "time"

// TransactionType defines the kind of ledger entry.
type TransactionType string

const (
	TransactionTypePaymentSent     TransactionType = "payment_sent"
	TransactionTypePaymentReceived TransactionType = "payment_received"
	TransactionTypeBurn            TransactionType = "burn"
)

// Transaction is an append-only audit record of a balance change. Rows are
// written only by confirm-payment (two rows, one per party) and burn (one
// row); they are never updated or deleted.
type Transaction struct {
	ID                   int64           `db:"id" json:"id"`                                         // Primary key, BIGSERIAL in DB
	Username             string          `db:"username" json:"username"`                             // Owner of this ledger entry
	Type                 TransactionType `db:"type" json:"type"`                                     // payment_sent, payment_received or burn
	Description          string          `db:"description" json:"description"`                       // Human-readable summary
	BlueChange           int64           `db:"blue_change" json:"blue_change"`                       // Signed BLUE delta
	RedChange            int64           `db:"red_change" json:"red_change"`                         // Signed RED delta
	RelatedPublicationID *int64          `db:"related_publication_id" json:"related_publication_id"` // Optional publication link
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`                         // Timestamp of record creation
}

// NewTransaction creates a new Transaction instance.
func NewTransaction(username string, txType TransactionType, description string, blueChange, redChange int64, relatedPublicationID *int64) *Transaction {
	return &Transaction{
		Username:             username,
		Type:                 txType,
		Description:          description,
		BlueChange:           blueChange,
		RedChange:            redChange,
		RelatedPublicationID: relatedPublicationID,
		CreatedAt:            time.Now().UTC(),
	}
}
