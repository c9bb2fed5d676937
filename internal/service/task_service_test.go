// internal/service/task_service_test.go
package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskmarket/internal/domain"
	"taskmarket/internal/util"
	"taskmarket/pkg/db"
)

// taskServiceMocks bundles the mocks behind a TaskService under test.
type taskServiceMocks struct {
	userRepo     *MockUserRepository
	pubRepo      *MockPublicationRepository
	notifRepo    *MockNotificationRepository
	txRepo       *MockTransactionRepository
	dbBeginner   *MockDBBeginner
	dbExecutor   *MockDBExecutor
	txController *MockTxController
}

func (m *taskServiceMocks) assertExpectations(t *testing.T) {
	mock.AssertExpectationsForObjects(t, m.dbBeginner, m.dbExecutor, m.txController, m.userRepo, m.pubRepo, m.notifRepo, m.txRepo)
}

// newTaskServiceWithMocks builds a TaskService whose injected transaction
// functions hand out the mock controller, so every atomic path can be
// exercised without a database.
func newTaskServiceWithMocks() (TaskService, *taskServiceMocks) {
	m := &taskServiceMocks{
		userRepo:     new(MockUserRepository),
		pubRepo:      new(MockPublicationRepository),
		notifRepo:    new(MockNotificationRepository),
		txRepo:       new(MockTransactionRepository),
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
	}
	svc := NewTaskService(
		m.dbBeginner,
		m.dbExecutor,
		m.userRepo,
		m.pubRepo,
		m.notifRepo,
		m.txRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
	)
	return svc, m
}

func openPub(id int64) *domain.Publication {
	return &domain.Publication{
		ID:             id,
		Title:          "Walk my dog",
		Description:    "Two laps around the park.",
		BlueCost:       20,
		AuthorUsername: "alice",
		Status:         domain.StatusOpen,
	}
}

func pubInState(id int64, status domain.Status, acceptedBy string) *domain.Publication {
	p := openPub(id)
	p.Status = status
	p.AcceptedByUsername = &acceptedBy
	return p
}

func TestPublish(t *testing.T) {
	t.Run("SuccessfulPublish", func(t *testing.T) {
		ctx := context.Background()
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("CreatePublication", ctx, m.dbExecutor, mock.AnythingOfType("*domain.Publication")).Return(nil).Once()

		pub, err := service.Publish(ctx, "Walk my dog", "Two laps around the park.", 20, "alice")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, pub.Status)
		assert.Equal(t, "alice", pub.AuthorUsername)
		assert.Nil(t, pub.AcceptedByUsername)
		m.assertExpectations(t)
	})

	t.Run("MissingField", func(t *testing.T) {
		ctx := context.Background()
		service, m := newTaskServiceWithMocks()

		for _, tc := range []struct {
			title, description, author string
			cost                       int64
		}{
			{"", "desc", "alice", 20},
			{"title", "", "alice", 20},
			{"title", "desc", "", 20},
			{"title", "desc", "alice", 0},
			{"title", "desc", "alice", -5},
		} {
			pub, err := service.Publish(ctx, tc.title, tc.description, tc.cost, tc.author)
			assert.ErrorIs(t, err, util.ErrInvalidInput)
			assert.Nil(t, pub)
		}
		m.pubRepo.AssertNotCalled(t, "CreatePublication", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccept(t *testing.T) {
	pubID := int64(1)
	ctx := context.Background()

	t.Run("SuccessfulAccept", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).Return(openPub(pubID), nil).Once()
		m.pubRepo.On("UpdatePublicationStatus", ctx, mock.Anything, pubID, domain.StatusPendingApproval,
			mock.MatchedBy(func(acceptedBy *string) bool { return acceptedBy != nil && *acceptedBy == "bob" })).Return(nil).Once()
		m.notifRepo.On("CreateNotification", ctx, mock.Anything,
			mock.MatchedBy(func(n *domain.Notification) bool {
				return n.RecipientUsername == "alice" && strings.Contains(n.Message, "bob")
			})).Return(nil).Once()
		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		pub, err := service.Accept(ctx, pubID, "bob")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPendingApproval, pub.Status)
		assert.NotNil(t, pub.AcceptedByUsername)
		assert.Equal(t, "bob", *pub.AcceptedByUsername)
		m.assertExpectations(t)
	})

	t.Run("SelfAccept", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).Return(openPub(pubID), nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.Accept(ctx, pubID, "alice")

		assert.ErrorIs(t, err, util.ErrSelfAccept)
		assert.Nil(t, pub)
		m.txController.AssertNotCalled(t, "Commit")
		m.pubRepo.AssertNotCalled(t, "UpdatePublicationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.notifRepo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("NotOpen", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusPendingApproval, "carol"), nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.Accept(ctx, pubID, "bob")

		assert.ErrorIs(t, err, util.ErrNotEligible)
		assert.Nil(t, pub)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertExpectations(t)
	})

	t.Run("NotFoundMapsToNotEligible", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).Return(nil, util.ErrNotFound).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.Accept(ctx, pubID, "bob")

		assert.ErrorIs(t, err, util.ErrNotEligible)
		assert.Nil(t, pub)
		m.assertExpectations(t)
	})

	t.Run("NotificationFailureAbortsTransition", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).Return(openPub(pubID), nil).Once()
		m.pubRepo.On("UpdatePublicationStatus", ctx, mock.Anything, pubID, domain.StatusPendingApproval, mock.Anything).Return(nil).Once()
		m.notifRepo.On("CreateNotification", ctx, mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.Accept(ctx, pubID, "bob")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create notification")
		assert.Nil(t, pub)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertExpectations(t)
	})
}

func TestApprove(t *testing.T) {
	pubID := int64(2)
	ctx := context.Background()

	t.Run("SuccessfulApprove", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusPendingApproval, "bob"), nil).Once()
		m.pubRepo.On("UpdatePublicationStatus", ctx, mock.Anything, pubID, domain.StatusApproved,
			mock.MatchedBy(func(acceptedBy *string) bool { return acceptedBy == nil })).Return(nil).Once()
		m.notifRepo.On("CreateNotification", ctx, mock.Anything,
			mock.MatchedBy(func(n *domain.Notification) bool { return n.RecipientUsername == "bob" })).Return(nil).Once()
		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		pub, err := service.Approve(ctx, pubID, "alice")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, pub.Status)
		m.assertExpectations(t)
	})

	t.Run("NotAuthor", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusPendingApproval, "bob"), nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.Approve(ctx, pubID, "bob")

		assert.ErrorIs(t, err, util.ErrNotEligible)
		assert.Nil(t, pub)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertExpectations(t)
	})
}

func TestComplete(t *testing.T) {
	pubID := int64(3)
	ctx := context.Background()

	t.Run("SuccessfulComplete", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusApproved, "bob"), nil).Once()
		m.pubRepo.On("UpdatePublicationStatus", ctx, mock.Anything, pubID, domain.StatusCompleted, mock.Anything).Return(nil).Once()
		m.notifRepo.On("CreateNotification", ctx, mock.Anything,
			mock.MatchedBy(func(n *domain.Notification) bool { return n.RecipientUsername == "alice" })).Return(nil).Once()
		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		pub, err := service.Complete(ctx, pubID, "bob")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, pub.Status)
		m.assertExpectations(t)
	})

	t.Run("NotAcceptor", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusApproved, "bob"), nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.Complete(ctx, pubID, "carol")

		assert.ErrorIs(t, err, util.ErrNotEligible)
		assert.Nil(t, pub)
		m.assertExpectations(t)
	})
}

func TestConfirmPayment(t *testing.T) {
	pubID := int64(4)
	ctx := context.Background()

	t.Run("SuccessfulConfirmPayment", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusCompleted, "bob"), nil).Once()
		m.pubRepo.On("UpdatePublicationStatus", ctx, mock.Anything, pubID, domain.StatusConfirmedPaid,
			mock.MatchedBy(func(acceptedBy *string) bool { return acceptedBy == nil })).Return(nil).Once()
		m.notifRepo.On("CreateNotification", ctx, mock.Anything,
			mock.MatchedBy(func(n *domain.Notification) bool {
				return n.RecipientUsername == "bob" && strings.Contains(n.Message, "20 BLUE")
			})).Return(nil).Once()

		// The author accumulates RED, the acceptor earns BLUE.
		m.userRepo.On("UpdateUserBalances", ctx, mock.Anything, "alice", int64(0), int64(20)).Return(nil).Once()
		m.userRepo.On("UpdateUserBalances", ctx, mock.Anything, "bob", int64(20), int64(0)).Return(nil).Once()

		m.txRepo.On("CreateTransaction", ctx, mock.Anything,
			mock.MatchedBy(func(tx *domain.Transaction) bool {
				return tx.Username == "alice" && tx.Type == domain.TransactionTypePaymentSent &&
					tx.BlueChange == 0 && tx.RedChange == 20 &&
					tx.RelatedPublicationID != nil && *tx.RelatedPublicationID == pubID
			})).Return(nil).Once()
		m.txRepo.On("CreateTransaction", ctx, mock.Anything,
			mock.MatchedBy(func(tx *domain.Transaction) bool {
				return tx.Username == "bob" && tx.Type == domain.TransactionTypePaymentReceived &&
					tx.BlueChange == 20 && tx.RedChange == 0 &&
					tx.RelatedPublicationID != nil && *tx.RelatedPublicationID == pubID
			})).Return(nil).Once()

		m.txController.On("Commit").Return(nil).Once()
		m.txController.On("Rollback").Return(nil).Maybe()

		pub, err := service.ConfirmPayment(ctx, pubID, "alice")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmedPaid, pub.Status)
		m.assertExpectations(t)
	})

	t.Run("NotAuthor", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusCompleted, "bob"), nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.ConfirmPayment(ctx, pubID, "bob")

		assert.ErrorIs(t, err, util.ErrNotEligible)
		assert.Nil(t, pub)
		m.txController.AssertNotCalled(t, "Commit")
		m.userRepo.AssertNotCalled(t, "UpdateUserBalances", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.txRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("NotCompleted", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusApproved, "bob"), nil).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.ConfirmPayment(ctx, pubID, "alice")

		assert.ErrorIs(t, err, util.ErrNotEligible)
		assert.Nil(t, pub)
		m.assertExpectations(t)
	})

	t.Run("LedgerWriteFailureRollsBack", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		m.pubRepo.On("GetPublicationByIDForUpdate", ctx, mock.Anything, pubID).
			Return(pubInState(pubID, domain.StatusCompleted, "bob"), nil).Once()
		m.pubRepo.On("UpdatePublicationStatus", ctx, mock.Anything, pubID, domain.StatusConfirmedPaid, mock.Anything).Return(nil).Once()
		m.notifRepo.On("CreateNotification", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.userRepo.On("UpdateUserBalances", ctx, mock.Anything, "alice", int64(0), int64(20)).Return(errors.New("db error")).Once()
		m.txController.On("Rollback").Return(nil).Once()

		pub, err := service.ConfirmPayment(ctx, pubID, "alice")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to credit author")
		assert.Nil(t, pub)
		m.txController.AssertNotCalled(t, "Commit")
		m.assertExpectations(t)
	})
}

func TestGetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("AuthoredAndCompleted", func(t *testing.T) {
		service, m := newTaskServiceWithMocks()

		authored := []domain.Publication{*openPub(1)}
		completed := []domain.Publication{*pubInState(2, domain.StatusConfirmedPaid, "alice")}
		m.pubRepo.On("ListAuthoredPublications", ctx, m.dbExecutor, "alice").Return(authored, nil).Once()
		m.pubRepo.On("ListCompletedAsAcceptor", ctx, m.dbExecutor, "alice").Return(completed, nil).Once()

		history, err := service.GetHistory(ctx, "alice")

		assert.NoError(t, err)
		assert.Len(t, history.Authored, 1)
		assert.Len(t, history.Completed, 1)
		m.assertExpectations(t)
	})

	t.Run("MissingUsername", func(t *testing.T) {
		service, _ := newTaskServiceWithMocks()

		history, err := service.GetHistory(ctx, "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, history)
	})
}
