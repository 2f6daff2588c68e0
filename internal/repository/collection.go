package repository

import (
	"context"

	"github.com/packworks/packworks/internal/domain"
)

// Collection defines the interface for card collection persistence
type Collection interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetCollection(ctx context.Context, userID string) (*domain.Collection, error)
	UpdateCollection(ctx context.Context, userID string, collection domain.Collection) error
	BeginTx(ctx context.Context) (CollectionTx, error)
}

// CollectionTx defines the interface for collection transactions.
// GetCollectionForUpdate takes a row lock so sell, ship, and sweep flows
// cannot interleave on the same user's cards.
type CollectionTx interface {
	Tx
	GetCollectionForUpdate(ctx context.Context, userID string) (*domain.Collection, error)
	UpdateCollection(ctx context.Context, userID string, collection domain.Collection) error
	IsSessionCommitted(ctx context.Context, sessionID string) (bool, error)
	MarkSessionCommitted(ctx context.Context, sessionID, userID string) error
}
