package product

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookdolphin/catalog/internal/platform/postgres"
)

// pgxTxManager implements [TxManager] on a pgx connection pool.
type pgxTxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager constructs a PostgreSQL backed transaction manager.
func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &pgxTxManager{pool: pool}
}

func (manager *pgxTxManager) InTx(ctx context.Context, fn func(ctx context.Context, store ProductStore) error) error {
	return postgres.WithinTx(ctx, manager.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewProductStore(tx))
	})
}
