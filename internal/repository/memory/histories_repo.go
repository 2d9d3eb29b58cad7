package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
)

type historiesRepo struct {
	mu     sync.RWMutex
	seq    int64
	byUser map[int64][]models.TransactionRecord
}

// Append never fails; the unit of work relies on that.
func (r *historiesRepo) Append(_ context.Context, userID, amount int64, typ models.TransactionType, at time.Time) (models.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rec := models.TransactionRecord{
		ID:           r.seq,
		UserID:       userID,
		Amount:       amount,
		Type:         typ,
		UpdateMillis: at.UnixMilli(),
	}
	r.byUser[userID] = append(r.byUser[userID], rec)
	return rec, nil
}

func (r *historiesRepo) ListByUser(_ context.Context, userID int64) ([]models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.byUser[userID]
	out := make([]models.TransactionRecord, len(src))
	copy(out, src)
	return out, nil
}
