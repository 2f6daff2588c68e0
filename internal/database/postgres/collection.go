package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/packworks/packworks/internal/domain"
	"github.com/packworks/packworks/internal/repository"
)

// CollectionRepository implements the collection repository for PostgreSQL.
// Collections are stored as a JSONB card array per user; the card list is
// small and always read or written whole, so a document column beats a
// per-card table here.
type CollectionRepository struct {
	db *pgxpool.Pool
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *pgxpool.Pool) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// CollectionTx implements repository.CollectionTx
type CollectionTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *CollectionRepository) BeginTx(ctx context.Context) (repository.CollectionTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &CollectionTx{tx: tx}, nil
}

// Commit commits the transaction
func (t *CollectionTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *CollectionTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetUser retrieves a user by id
func (r *CollectionRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, created_at
		FROM users
		WHERE user_id = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, userID).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetCollection retrieves the user's collection. Users without a row yet
// get an empty collection, not an error.
func (r *CollectionRepository) GetCollection(ctx context.Context, userID string) (*domain.Collection, error) {
	query := `
		SELECT cards, last_update
		FROM collections
		WHERE user_id = $1
	`
	return scanCollection(r.db.QueryRow(ctx, query, userID))
}

// UpdateCollection replaces the user's stored collection
func (r *CollectionRepository) UpdateCollection(ctx context.Context, userID string, col domain.Collection) error {
	return updateCollection(ctx, r.db, userID, col)
}

// ListUserIDs returns the user id of every stored collection. Used by the
// expiry sweep to enumerate work.
func (r *CollectionRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM collections`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collection user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

// GetCollectionForUpdate retrieves the collection with a row lock, creating
// the row first so the lock always has something to hold.
func (t *CollectionTx) GetCollectionForUpdate(ctx context.Context, userID string) (*domain.Collection, error) {
	ensure := `
		INSERT INTO collections (user_id, cards, last_update)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := t.tx.Exec(ctx, ensure, userID, EmptyCardsJSON); err != nil {
		return nil, fmt.Errorf("failed to ensure collection row: %w", err)
	}

	query := `
		SELECT cards, last_update
		FROM collections
		WHERE user_id = $1
		FOR UPDATE
	`
	return scanCollection(t.tx.QueryRow(ctx, query, userID))
}

// UpdateCollection for Tx
func (t *CollectionTx) UpdateCollection(ctx context.Context, userID string, col domain.Collection) error {
	return updateCollection(ctx, t.tx, userID, col)
}

// IsSessionCommitted reports whether a reveal session's cards are already merged
func (t *CollectionTx) IsSessionCommitted(ctx context.Context, sessionID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM committed_sessions WHERE session_id = $1)`
	var exists bool
	if err := t.tx.QueryRow(ctx, query, sessionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check committed session: %w", err)
	}
	return exists, nil
}

// MarkSessionCommitted records the session so retried commits become no-ops
func (t *CollectionTx) MarkSessionCommitted(ctx context.Context, sessionID, userID string) error {
	query := `
		INSERT INTO committed_sessions (session_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING
	`
	if _, err := t.tx.Exec(ctx, query, sessionID, userID); err != nil {
		return fmt.Errorf("failed to mark session committed: %w", err)
	}
	return nil
}

// execer is the subset of pgx shared by pool and tx
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var (
		cardsJSON  []byte
		lastUpdate int64
	)
	err := row.Scan(&cardsJSON, &lastUpdate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Collection{}, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	var cards []domain.Card
	if err := json.Unmarshal(cardsJSON, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode collection cards: %w", err)
	}
	return &domain.Collection{Cards: cards, LastUpdate: lastUpdate}, nil
}

func updateCollection(ctx context.Context, q execer, userID string, col domain.Collection) error {
	cards := col.Cards
	if cards == nil {
		cards = []domain.Card{}
	}
	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to encode collection cards: %w", err)
	}

	query := `
		INSERT INTO collections (user_id, cards, last_update)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET cards = EXCLUDED.cards, last_update = EXCLUDED.last_update
	`
	if _, err := q.Exec(ctx, query, userID, cardsJSON, col.LastUpdate); err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	return nil
}
