// internal/service/task_service.go
package service

import (
	"context"
	"fmt"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"
	"taskmarket/internal/util"
	"taskmarket/pkg/db"
)

// History groups the publications that make up a user's task history:
// everything they authored plus everything they carried through to
// confirmed_paid as acceptor.
type History struct {
	Authored  []domain.Publication `json:"authored"`
	Completed []domain.Publication `json:"completed"`
}

// TaskService defines the interface for publication lifecycle business logic.
type TaskService interface {
	Publish(ctx context.Context, title, description string, blueCost int64, author string) (*domain.Publication, error)
	ListAllPublications(ctx context.Context) ([]domain.Publication, error)
	ListActivePublications(ctx context.Context, viewer string) ([]domain.Publication, error)
	Accept(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error)
	Approve(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error)
	Complete(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error)
	ConfirmPayment(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error)
	GetHistory(ctx context.Context, username string) (*History, error)
}

// taskService implements the TaskService interface.
type taskService struct {
	dbBeginner       db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor       repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo         repository.UserRepository
	publicationRepo  repository.PublicationRepository
	notificationRepo repository.NotificationRepository
	transactionRepo  repository.TransactionRepository
	beginTx          db.BeginTxFunc    // Injected dependency for beginning transactions
	commitTx         db.CommitTxFunc   // Injected dependency for committing transactions
	rollbackTx       db.RollbackTxFunc // Injected dependency for rolling back transactions
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	publicationRepo repository.PublicationRepository,
	notificationRepo repository.NotificationRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TaskService {
	return &taskService{
		dbBeginner:       dbBeginner,
		dbExecutor:       dbExecutor,
		userRepo:         userRepo,
		publicationRepo:  publicationRepo,
		notificationRepo: notificationRepo,
		transactionRepo:  transactionRepo,
		beginTx:          beginTx,
		commitTx:         commitTx,
		rollbackTx:       rollbackTx,
	}
}

// Publish creates a new open publication.
func (s *taskService) Publish(ctx context.Context, title, description string, blueCost int64, author string) (*domain.Publication, error) {
	if title == "" || description == "" || author == "" || blueCost <= 0 {
		return nil, util.ErrInvalidInput
	}

	pub := domain.NewPublication(title, description, blueCost, author)
	if err := s.publicationRepo.CreatePublication(ctx, s.dbExecutor, pub); err != nil {
		return nil, fmt.Errorf("publish: failed to create publication: %w", err)
	}
	return pub, nil
}

// ListAllPublications returns every publication, newest first.
func (s *taskService) ListAllPublications(ctx context.Context) ([]domain.Publication, error) {
	pubs, err := s.publicationRepo.ListAllPublications(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	return pubs, nil
}

// ListActivePublications returns the publications visible to the viewer on
// the main panel: all open offers plus in-flight tasks they are party to.
func (s *taskService) ListActivePublications(ctx context.Context, viewer string) ([]domain.Publication, error) {
	if viewer == "" {
		return nil, util.ErrInvalidInput
	}
	pubs, err := s.publicationRepo.ListActivePublications(ctx, s.dbExecutor, viewer)
	if err != nil {
		return nil, fmt.Errorf("list active publications: %w", err)
	}
	return pubs, nil
}

// Accept moves an open publication to pending_approval on behalf of a user
// other than the author, and notifies the author.
func (s *taskService) Accept(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error) {
	return s.transition(ctx, publicationID, domain.ActionAccept, actor)
}

// Approve moves a pending_approval publication to approved on behalf of the
// author, and notifies the acceptor.
func (s *taskService) Approve(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error) {
	return s.transition(ctx, publicationID, domain.ActionApprove, actor)
}

// Complete moves an approved publication to completed on behalf of the
// acceptor, and notifies the author.
func (s *taskService) Complete(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error) {
	return s.transition(ctx, publicationID, domain.ActionComplete, actor)
}

// transition runs a single lifecycle transition as one atomic unit:
// lock, validate, update status, notify the counterparty, commit.
func (s *taskService) transition(ctx context.Context, publicationID int64, action domain.Action, actor string) (*domain.Publication, error) {
	if actor == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", action, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("%s: transaction controller does not implement DBExecutor", action)
	}

	pub, err := s.applyTransition(ctx, txExecutor, publicationID, action, actor)
	if err != nil {
		return nil, err
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", action, err)
	}

	return pub, nil
}

// applyTransition performs the shared portion of every lifecycle transition
// against the given transactional executor. The publication row is locked so
// that of two concurrent attempts exactly one passes the status check; the
// other observes the committed state and fails with ErrNotEligible.
func (s *taskService) applyTransition(ctx context.Context, q repository.DBExecutor, publicationID int64, action domain.Action, actor string) (*domain.Publication, error) {
	pub, err := s.publicationRepo.GetPublicationByIDForUpdate(ctx, q, publicationID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			// A missing publication and an ineligible one are the same
			// condition to the caller.
			return nil, util.ErrNotEligible
		}
		return nil, fmt.Errorf("%s: failed to load publication %d: %w", action, publicationID, err)
	}

	rule, err := pub.Transition(action, actor)
	if err != nil {
		return nil, err
	}

	var acceptedBy *string
	if action == domain.ActionAccept {
		acceptedBy = &actor
	}

	if err := s.publicationRepo.UpdatePublicationStatus(ctx, q, pub.ID, rule.To, acceptedBy); err != nil {
		return nil, fmt.Errorf("%s: failed to update publication %d: %w", action, pub.ID, err)
	}
	pub.Status = rule.To
	if acceptedBy != nil {
		pub.AcceptedByUsername = acceptedBy
	}

	recipient, message := rule.Notification(pub, actor)
	if err := s.notificationRepo.CreateNotification(ctx, q, domain.NewNotification(recipient, message)); err != nil {
		return nil, fmt.Errorf("%s: failed to create notification: %w", action, err)
	}

	return pub, nil
}

// ConfirmPayment is the economically significant transition: besides the
// status change and notification, it credits the author's RED and the
// acceptor's BLUE balance by the publication cost and appends the two audit
// rows. All effects commit together or not at all.
func (s *taskService) ConfirmPayment(ctx context.Context, publicationID int64, actor string) (*domain.Publication, error) {
	if actor == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("confirm payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("confirm payment: transaction controller does not implement DBExecutor")
	}

	pub, err := s.applyTransition(ctx, txExecutor, publicationID, domain.ActionConfirmPayment, actor)
	if err != nil {
		return nil, err
	}

	cost := pub.BlueCost
	acceptor := *pub.AcceptedByUsername

	// The author pays by accumulating RED; the acceptor earns BLUE.
	if err := s.userRepo.UpdateUserBalances(ctx, txExecutor, pub.AuthorUsername, 0, cost); err != nil {
		return nil, fmt.Errorf("confirm payment: failed to credit author: %w", err)
	}
	if err := s.userRepo.UpdateUserBalances(ctx, txExecutor, acceptor, cost, 0); err != nil {
		return nil, fmt.Errorf("confirm payment: failed to credit acceptor: %w", err)
	}

	sent := domain.NewTransaction(pub.AuthorUsername, domain.TransactionTypePaymentSent,
		fmt.Sprintf("Requested: %q", pub.Title), 0, cost, &pub.ID)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, sent); err != nil {
		return nil, fmt.Errorf("confirm payment: failed to record payment_sent: %w", err)
	}

	received := domain.NewTransaction(acceptor, domain.TransactionTypePaymentReceived,
		fmt.Sprintf("Completed: %q", pub.Title), cost, 0, &pub.ID)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, received); err != nil {
		return nil, fmt.Errorf("confirm payment: failed to record payment_received: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("confirm payment: failed to commit transaction: %w", err)
	}

	return pub, nil
}

// GetHistory returns the user's authored publications plus publications they
// completed through to confirmed_paid as acceptor.
func (s *taskService) GetHistory(ctx context.Context, username string) (*History, error) {
	if username == "" {
		return nil, util.ErrInvalidInput
	}

	authored, err := s.publicationRepo.ListAuthoredPublications(ctx, s.dbExecutor, username)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	completed, err := s.publicationRepo.ListCompletedAsAcceptor(ctx, s.dbExecutor, username)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return &History{Authored: authored, Completed: completed}, nil
}
