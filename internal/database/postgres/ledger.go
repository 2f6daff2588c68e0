package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/repository"
)

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// LedgerTx implements repository.LedgerTx
type LedgerTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &LedgerTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *LedgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *LedgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetBalance returns the user's credit balance. Users without a balance row
// yet have zero credits.
func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (int, error) {
	query := `SELECT balance FROM ledger_balances WHERE user_id = $1`
	var balance int
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// GetEntries returns the most recent ledger entries, newest first
func (r *LedgerRepository) GetEntries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, user_id, amount, reason, reference, balance, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.Reference, &e.Balance, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}
	return entries, nil
}

// GetBalanceForUpdate locks the balance row, creating it first so the lock
// always has something to hold
func (t *LedgerTx) GetBalanceForUpdate(ctx context.Context, userID string) (int, error) {
	ensure := `
		INSERT INTO ledger_balances (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := t.tx.Exec(ctx, ensure, userID); err != nil {
		return 0, fmt.Errorf("failed to ensure balance row: %w", err)
	}

	query := `SELECT balance FROM ledger_balances WHERE user_id = $1 FOR UPDATE`
	var balance int
	if err := t.tx.QueryRow(ctx, query, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("failed to get balance for update: %w", err)
	}
	return balance, nil
}

// UpdateBalance sets the user's balance
func (t *LedgerTx) UpdateBalance(ctx context.Context, userID string, balance int) error {
	query := `
		UPDATE ledger_balances
		SET balance = $2, updated_at = NOW()
		WHERE user_id = $1
	`
	if _, err := t.tx.Exec(ctx, query, userID, balance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// InsertEntry appends one ledger entry
func (t *LedgerTx) InsertEntry(ctx context.Context, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (entry_id, user_id, amount, reason, reference, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Amount, entry.Reason, entry.Reference, entry.Balance, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}
