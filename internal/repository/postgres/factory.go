package postgres

import (
	"context"

	repo "github.com/baharkarakas/point-ledger/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txRunner struct{ pool *pgxpool.Pool }

// WithTx runs fn inside one pgx transaction; balance and history writes are
// committed together or rolled back together.
func (t txRunner) WithTx(ctx context.Context, fn func(repo.Balances, repo.Histories) error) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(&balancesRepo{tx}, &historiesRepo{tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// NewRepositories does not take ownership of pool; the caller closes it.
func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Balances:  &balancesRepo{pool},
		Histories: &historiesRepo{pool},
		Tx:        txRunner{pool},
	}
}
