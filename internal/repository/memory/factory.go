package memory

import (
	"context"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
)

type Option func(*balancesRepo)

// WithLatency bounds the simulated write delay of the balance table; reads
// wait up to half of it.
func WithLatency(bound time.Duration) Option {
	return func(r *balancesRepo) { r.latency = bound }
}

// WithClock overrides the timestamp source for balance writes.
func WithClock(now func() time.Time) Option {
	return func(r *balancesRepo) { r.now = now }
}

// txRunner has no rollback: Upsert fails only before mutating and Append
// cannot fail, so fn either changes both stores or neither.
type txRunner struct {
	b *balancesRepo
	h *historiesRepo
}

func (t txRunner) WithTx(ctx context.Context, fn func(repo.Balances, repo.Histories) error) error {
	return fn(t.b, t.h)
}

func NewRepositories(opts ...Option) repo.Repositories {
	b := &balancesRepo{rows: make(map[int64]models.UserBalance), now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	h := &historiesRepo{byUser: make(map[int64][]models.TransactionRecord)}
	return repo.Repositories{
		Balances:  b,
		Histories: h,
		Tx:        txRunner{b: b, h: h},
	}
}
