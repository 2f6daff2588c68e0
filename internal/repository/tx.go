package repository

import "context"

// Tx defines the common interface for database transactions
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
