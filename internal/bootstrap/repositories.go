package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/packworks/packworks/internal/database/postgres"
)

// Repositories holds the repository implementations used by the application.
// Fields keep their concrete types so callers can reach methods that sit
// outside the narrow service-facing interfaces, such as the user listing the
// expiry sweep worker needs.
type Repositories struct {
	Collection *postgres.CollectionRepository
	Ledger     *postgres.LedgerRepository
	Users      *postgres.UserRepository
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Collection: postgres.NewCollectionRepository(dbPool),
		Ledger:     postgres.NewLedgerRepository(dbPool),
		Users:      postgres.NewUserRepository(dbPool),
	}
}
