// internal/service/account_service.go
package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"
	"taskmarket/internal/util"
	"taskmarket/pkg/db"
)

// AccountService defines the interface for user account business logic:
// registration, authentication, balances, the burn operation, and the
// per-user notification and transaction feeds.
type AccountService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	GetBalance(ctx context.Context, username string) (*domain.User, error)
	Burn(ctx context.Context, username string, amount int64) (*domain.User, *domain.Transaction, error)
	ListTransactions(ctx context.Context, username string) ([]domain.Transaction, error)
	ListNotifications(ctx context.Context, username string) ([]domain.Notification, error)
	MarkNotificationsRead(ctx context.Context, username string) (int64, error)
}

// accountService implements the AccountService interface.
type accountService struct {
	dbBeginner       db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor       repository.DBExecutor // For non-transactional reads and single-row writes
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	transactionRepo  repository.TransactionRepository
	beginTx          db.BeginTxFunc    // Injected dependency for beginning transactions
	commitTx         db.CommitTxFunc   // Injected dependency for committing transactions
	rollbackTx       db.RollbackTxFunc // Injected dependency for rolling back transactions
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AccountService {
	return &accountService{
		dbBeginner:       dbBeginner,
		dbExecutor:       dbExecutor,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		transactionRepo:  transactionRepo,
		beginTx:          beginTx,
		commitTx:         commitTx,
		rollbackTx:       rollbackTx,
	}
}

// Register creates a new user with a bcrypt-hashed password and zero balances.
func (s *accountService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, util.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(username, string(hash))
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if util.IsError(err, util.ErrDuplicateEntry) {
			return nil, util.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the password and returns the user with current balances.
func (s *accountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, util.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("login: failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, util.ErrWrongPassword
	}
	return user, nil
}

// GetBalance returns the user with current balances.
func (s *accountService) GetBalance(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get balance: failed to get user '%s': %w", username, err)
	}
	return user, nil
}

// Burn atomically decrements both balances by amount and appends one burn
// transaction row. The user must hold at least amount of BLUE and at least
// amount of RED.
func (s *accountService) Burn(ctx context.Context, username string, amount int64) (*domain.User, *domain.Transaction, error) {
	if username == "" || amount <= 0 {
		return nil, nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("burn: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("burn: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByUsernameForUpdate(ctx, txExecutor, username)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("burn: failed to lock user '%s': %w", username, err)
	}

	if user.BlueBalance < amount || user.RedBalance < amount {
		return nil, nil, util.ErrInsufficientFunds
	}

	if err := s.userRepo.UpdateUserBalances(ctx, txExecutor, username, -amount, -amount); err != nil {
		return nil, nil, fmt.Errorf("burn: failed to update balances: %w", err)
	}

	transaction := domain.NewTransaction(username, domain.TransactionTypeBurn, "Tokens burned", -amount, -amount, nil)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, nil, fmt.Errorf("burn: failed to create transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("burn: failed to commit transaction: %w", err)
	}

	user.BlueBalance -= amount
	user.RedBalance -= amount
	return user, transaction, nil
}

// ListTransactions retrieves the user's ledger history, newest first.
func (s *accountService) ListTransactions(ctx context.Context, username string) ([]domain.Transaction, error) {
	if username == "" {
		return nil, util.ErrInvalidInput
	}
	transactions, err := s.transactionRepo.ListTransactionsByUser(ctx, s.dbExecutor, username)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// ListNotifications retrieves the user's notifications, newest first.
func (s *accountService) ListNotifications(ctx context.Context, username string) ([]domain.Notification, error) {
	if username == "" {
		return nil, util.ErrInvalidInput
	}
	notifications, err := s.notificationRepo.ListNotificationsByRecipient(ctx, s.dbExecutor, username)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationsRead flags all unread notifications as read and returns
// the number of notifications updated.
func (s *accountService) MarkNotificationsRead(ctx context.Context, username string) (int64, error) {
	if username == "" {
		return 0, util.ErrInvalidInput
	}
	count, err := s.notificationRepo.MarkAllRead(ctx, s.dbExecutor, username)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return count, nil
}
