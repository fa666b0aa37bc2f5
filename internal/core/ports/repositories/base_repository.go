package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for explicit transaction scopes.
// Every multi-row ledger mutation runs inside one Begin/Commit pair with a
// deferred Rollback, so partial state is never visible.
type TransactionManager interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction. Rolling back an already-committed
	// transaction is a no-op.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
