package category

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookdolphin/catalog/internal/platform/postgres"
)

// pgxTxManager implements [TxManager] on a pgx connection pool.
//
// Each unit of work gets a fresh pair of stores bound to one transaction,
// so every mutation inside the callback commits or rolls back atomically.
type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a PostgreSQL backed transaction manager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (manager *pgxTxManager) InTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error {
	return postgres.WithinTx(ctx, manager.pool, func(ctx context.Context, tx pgx.Tx) error {
		stores := Stores{
			Categories: NewCategoryStore(tx),
			Closures:   NewClosureStore(tx),
		}
		return fn(ctx, stores)
	})
}
