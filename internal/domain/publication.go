// internal/domain/publication.go
package domain

import (
	"fmt"
	"time"

	"taskmarket/internal/util"
)

// Status is the lifecycle state of a publication.
type Status string

const (
	StatusOpen            Status = "open"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusCompleted       Status = "completed"
	StatusConfirmedPaid   Status = "confirmed_paid" // Terminal
)

// Action identifies a lifecycle transition requested by an actor.
type Action string

const (
	ActionAccept         Action = "accept"
	ActionApprove        Action = "approve"
	ActionComplete       Action = "complete"
	ActionConfirmPayment Action = "confirm_payment"
)

// Publication represents a task offered on the marketplace.
// Invariant: AcceptedByUsername is nil iff Status is StatusOpen.
type Publication struct {
	ID                 int64     `db:"id" json:"id"` // Primary key, BIGSERIAL in DB
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	BlueCost           int64     `db:"blue_cost" json:"blue_cost"`                       // Price in BLUE tokens, > 0
	AuthorUsername     string    `db:"author_username" json:"author_username"`           // Owner, immutable
	AcceptedByUsername *string   `db:"accepted_by_username" json:"accepted_by_username"` // Set once on accept
	Status             Status    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// NewPublication creates a new open Publication instance.
func NewPublication(title, description string, blueCost int64, author string) *Publication {
	return &Publication{
		Title:          title,
		Description:    description,
		BlueCost:       blueCost,
		AuthorUsername: author,
		Status:         StatusOpen,
		CreatedAt:      time.Now().UTC(),
	}
}

// actorRole names the role an actor must hold to perform a transition.
type actorRole int

const (
	roleAnyoneButAuthor actorRole = iota // accept: any user except the author
	roleAuthor                           // approve, confirm-payment
	roleAcceptor                         // complete
)

// TransitionRule describes one edge of the lifecycle state machine: the
// required source status, the required actor role, the resulting status, and
// the notification addressed to the counterparty of the transition.
type TransitionRule struct {
	From Status
	To   Status
	role actorRole

	// Notification renders the counterparty notification for a publication
	// that has passed validation for this rule.
	Notification func(p *Publication, actor string) (recipient, message string)
}

// transitions is the full lifecycle table. Every state-changing action on a
// publication must go through one of these edges; there is no other path.
var transitions = map[Action]TransitionRule{
	ActionAccept: {
		From: StatusOpen,
		To:   StatusPendingApproval,
		role: roleAnyoneButAuthor,
		Notification: func(p *Publication, actor string) (string, string) {
			return p.AuthorUsername, fmt.Sprintf("%s has accepted your publication: %q", actor, p.Title)
		},
	},
	ActionApprove: {
		From: StatusPendingApproval,
		To:   StatusApproved,
		role: roleAuthor,
		Notification: func(p *Publication, actor string) (string, string) {
			return *p.AcceptedByUsername, fmt.Sprintf("Your request for %q was approved! You can start now.", p.Title)
		},
	},
	ActionComplete: {
		From: StatusApproved,
		To:   StatusCompleted,
		role: roleAcceptor,
		Notification: func(p *Publication, actor string) (string, string) {
			return p.AuthorUsername, fmt.Sprintf("%s has completed the task %q. Please confirm to release payment.", actor, p.Title)
		},
	},
	ActionConfirmPayment: {
		From: StatusCompleted,
		To:   StatusConfirmedPaid,
		role: roleAuthor,
		Notification: func(p *Publication, actor string) (string, string) {
			return *p.AcceptedByUsername, fmt.Sprintf("You received %d BLUE for the task %q!", p.BlueCost, p.Title)
		},
	},
}

// Transition validates that actor may perform action on p and returns the
// matched rule. A wrong source status and a wrong actor both yield
// ErrNotEligible so callers cannot probe lifecycle state they are not party
// to; only self-acceptance is reported distinctly.
func (p *Publication) Transition(action Action, actor string) (*TransitionRule, error) {
	rule, ok := transitions[action]
	if !ok {
		return nil, fmt.Errorf("unknown lifecycle action %q: %w", action, util.ErrInvalidInput)
	}

	if p.Status != rule.From {
		return nil, util.ErrNotEligible
	}

	switch rule.role {
	case roleAnyoneButAuthor:
		if actor == p.AuthorUsername {
			return nil, util.ErrSelfAccept
		}
	case roleAuthor:
		if actor != p.AuthorUsername {
			return nil, util.ErrNotEligible
		}
	case roleAcceptor:
		if p.AcceptedByUsername == nil || actor != *p.AcceptedByUsername {
			return nil, util.ErrNotEligible
		}
	}

	return &rule, nil
}
