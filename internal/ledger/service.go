// Package ledger manages user credit balances. Every mutation is recorded
// as a LedgerEntry inside the same transaction that moves the balance, so
// the entry log always reconciles against the stored balance.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/logger"
	"github.com/packworks/packworks/internal/repository"
)

// Service defines the credit ledger interface
type Service interface {
	// Balance returns the user's current credit balance.
	Balance(ctx context.Context, userID string) (int, error)
	// Credit adds amount to the balance and returns the new balance.
	// Amount must be positive.
	Credit(ctx context.Context, userID string, amount int, reason, reference string) (int, error)
	// Debit subtracts amount from the balance and returns the new balance.
	// Fails with ErrInsufficientFunds without changing anything when the
	// balance cannot cover the amount.
	Debit(ctx context.Context, userID string, amount int, reason, reference string) (int, error)
	// History returns the most recent ledger entries, newest first.
	History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
}

type service struct {
	repo repository.Ledger
	now  func() time.Time
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo, now: time.Now}
}

// NewServiceWithClock creates a ledger service with an injected clock for tests
func NewServiceWithClock(repo repository.Ledger, now func() time.Time) Service {
	return &service{repo: repo, now: now}
}

func (s *service) Balance(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgBalanceCalled, "userID", userID)

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetBalanceFailed, err)
	}
	return balance, nil
}

func (s *service) Credit(ctx context.Context, userID string, amount int, reason, reference string) (int, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreditCalled, "userID", userID, "amount", amount, "reason", reason)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive, got %d", domain.ErrInvalidInput, amount)
	}
	return s.apply(ctx, userID, amount, reason, reference)
}

func (s *service) Debit(ctx context.Context, userID string, amount int, reason, reference string) (int, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDebitCalled, "userID", userID, "amount", amount, "reason", reason)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: debit amount must be positive, got %d", domain.ErrInvalidInput, amount)
	}
	return s.apply(ctx, userID, -amount, reason, reference)
}

// apply moves the balance by delta inside a transaction and records the
// matching ledger entry. Rejected mutations leave the balance untouched.
func (s *service) apply(ctx context.Context, userID string, delta int, reason, reference string) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	balance, err := tx.GetBalanceForUpdate(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetBalanceFailed, err)
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return 0, fmt.Errorf("%w: balance %d cannot cover %d", domain.ErrInsufficientFunds, balance, -delta)
	}

	if err := tx.UpdateBalance(ctx, userID, newBalance); err != nil {
		return 0, fmt.Errorf(ErrMsgUpdateBalanceFailed, err)
	}

	entry := domain.LedgerEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    delta,
		Reason:    reason,
		Reference: reference,
		Balance:   newBalance,
		CreatedAt: s.now(),
	}
	if err := tx.InsertEntry(ctx, entry); err != nil {
		return 0, fmt.Errorf(ErrMsgInsertEntryFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	log.Debug(LogMsgBalanceMoved, "userID", userID, "delta", delta, "balance", newBalance)
	return newBalance, nil
}

func (s *service) History(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgHistoryCalled, "userID", userID, "limit", limit)

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetEntries(ctx, userID, limit)
}
