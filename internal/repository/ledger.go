package repository

import (
	"context"

	"github.com/packworks/packworks/internal/domain"
)

// Ledger defines the interface for credit balance persistence
type Ledger interface {
	GetBalance(ctx context.Context, userID string) (int, error)
	GetEntries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx defines the interface for ledger transactions.
// GetBalanceForUpdate locks the balance row for the duration of the
// transaction so concurrent mutations serialize.
type LedgerTx interface {
	Tx
	GetBalanceForUpdate(ctx context.Context, userID string) (int, error)
	UpdateBalance(ctx context.Context, userID string, balance int) error
	InsertEntry(ctx context.Context, entry domain.LedgerEntry) error
}
