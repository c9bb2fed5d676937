// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"taskmarket/internal/domain"
	"taskmarket/internal/repository"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsernameForUpdate(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserBalances(ctx context.Context, q repository.DBExecutor, username string, blueDelta, redDelta int64) error {
	args := m.Called(ctx, q, username, blueDelta, redDelta)
	return args.Error(0)
}

// MockPublicationRepository is a mock implementation of repository.PublicationRepository.
type MockPublicationRepository struct {
	mock.Mock
}

func (m *MockPublicationRepository) CreatePublication(ctx context.Context, q repository.DBExecutor, pub *domain.Publication) error {
	args := m.Called(ctx, q, pub)
	return args.Error(0)
}

func (m *MockPublicationRepository) GetPublicationByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Publication, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Publication), args.Error(1)
}

func (m *MockPublicationRepository) GetPublicationByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Publication, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Publication), args.Error(1)
}

func (m *MockPublicationRepository) UpdatePublicationStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.Status, acceptedBy *string) error {
	args := m.Called(ctx, q, id, status, acceptedBy)
	return args.Error(0)
}

func (m *MockPublicationRepository) ListAllPublications(ctx context.Context, q repository.DBExecutor) ([]domain.Publication, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Publication), args.Error(1)
}

func (m *MockPublicationRepository) ListActivePublications(ctx context.Context, q repository.DBExecutor, viewer string) ([]domain.Publication, error) {
	args := m.Called(ctx, q, viewer)
	return args.Get(0).([]domain.Publication), args.Error(1)
}

func (m *MockPublicationRepository) ListAuthoredPublications(ctx context.Context, q repository.DBExecutor, author string) ([]domain.Publication, error) {
	args := m.Called(ctx, q, author)
	return args.Get(0).([]domain.Publication), args.Error(1)
}

func (m *MockPublicationRepository) ListCompletedAsAcceptor(ctx context.Context, q repository.DBExecutor, acceptor string) ([]domain.Publication, error) {
	args := m.Called(ctx, q, acceptor)
	return args.Get(0).([]domain.Publication), args.Error(1)
}

// MockNotificationRepository is a mock implementation of repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, q repository.DBExecutor, notification *domain.Notification) error {
	args := m.Called(ctx, q, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListNotificationsByRecipient(ctx context.Context, q repository.DBExecutor, username string) ([]domain.Notification, error) {
	args := m.Called(ctx, q, username)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, q repository.DBExecutor, username string) (int64, error) {
	args := m.Called(ctx, q, username)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, q repository.DBExecutor, username string) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, username)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implicitly implements repository.DBExecutor for testing purposes
// by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor // Embed MockDBExecutor to satisfy repository.DBExecutor interface
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
