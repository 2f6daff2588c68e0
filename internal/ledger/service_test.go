package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/packworks/packworks/internal/domain"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestBalance(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetBalance", mock.Anything, "user-1").Return(250, nil)

	svc := NewService(repo)
	balance, err := svc.Balance(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 250, balance)
	repo.AssertExpectations(t)
}

func TestCredit(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetBalanceForUpdate", mock.Anything, "user-1").Return(100, nil)
	tx.On("UpdateBalance", mock.Anything, "user-1", 140).Return(nil)
	tx.On("InsertEntry", mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.UserID == "user-1" &&
			e.Amount == 40 &&
			e.Reason == domain.LedgerReasonConversion &&
			e.Balance == 140 &&
			e.ID != ""
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(errors.New(domain.ErrMsgTxClosed))

	svc := NewServiceWithClock(repo, fixedClock())
	balance, err := svc.Credit(context.Background(), "user-1", 40, domain.LedgerReasonConversion, "sweep-1")

	require.NoError(t, err)
	assert.Equal(t, 140, balance)
	tx.AssertExpectations(t)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.Credit(context.Background(), "user-1", 0, domain.LedgerReasonGrant, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Credit(context.Background(), "user-1", -5, domain.LedgerReasonGrant, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestDebit(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetBalanceForUpdate", mock.Anything, "user-1").Return(500, nil)
	tx.On("UpdateBalance", mock.Anything, "user-1", 400).Return(nil)
	tx.On("InsertEntry", mock.Anything, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.Amount == -100 && e.Reason == domain.LedgerReasonPurchase && e.Reference == "starter"
	})).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(errors.New(domain.ErrMsgTxClosed))

	svc := NewServiceWithClock(repo, fixedClock())
	balance, err := svc.Debit(context.Background(), "user-1", 100, domain.LedgerReasonPurchase, "starter")

	require.NoError(t, err)
	assert.Equal(t, 400, balance)
	tx.AssertExpectations(t)
}

func TestDebitInsufficientFunds(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetBalanceForUpdate", mock.Anything, "user-1").Return(30, nil)
	tx.On("Rollback", mock.Anything).Return(nil)

	svc := NewService(repo)
	_, err := svc.Debit(context.Background(), "user-1", 100, domain.LedgerReasonPurchase, "starter")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	tx.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestDebitExactBalance(t *testing.T) {
	repo := new(MockRepository)
	tx := new(MockTx)

	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetBalanceForUpdate", mock.Anything, "user-1").Return(100, nil)
	tx.On("UpdateBalance", mock.Anything, "user-1", 0).Return(nil)
	tx.On("InsertEntry", mock.Anything, mock.Anything).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(errors.New(domain.ErrMsgTxClosed))

	svc := NewService(repo)
	balance, err := svc.Debit(context.Background(), "user-1", 100, domain.LedgerReasonShipping, "ship-1")

	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestHistoryDefaultsLimit(t *testing.T) {
	repo := new(MockRepository)
	entries := []domain.LedgerEntry{{ID: "e1", UserID: "user-1", Amount: 10}}
	repo.On("GetEntries", mock.Anything, "user-1", DefaultHistoryLimit).Return(entries, nil)

	svc := NewService(repo)
	got, err := svc.History(context.Background(), "user-1", 0)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	repo.AssertExpectations(t)
}
