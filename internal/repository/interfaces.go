package repository

import (
	"context"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
)

// Balances holds the current point balance per user. Upsert is a blind
// write; a read-modify-write through this interface is only safe while the
// caller holds the user's lock.
type Balances interface {
	Get(ctx context.Context, userID int64) (models.UserBalance, error)
	Upsert(ctx context.Context, userID, point int64) (models.UserBalance, error)
}

// Histories is the append-only transaction log.
type Histories interface {
	Append(ctx context.Context, userID, amount int64, typ models.TransactionType, at time.Time) (models.TransactionRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error)
}

// TxRunner runs a balance write and its history append as one unit.
// Implementations must leave both stores untouched when fn returns an error.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Balances, Histories) error) error
}

type Repositories struct {
	Balances  Balances
	Histories Histories
	Tx        TxRunner
	// Close releases backend resources; nil for backends without any.
	Close func() error
}
