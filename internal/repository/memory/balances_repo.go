package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
)

type balancesRepo struct {
	mu      sync.RWMutex
	rows    map[int64]models.UserBalance
	latency time.Duration
	now     func() time.Time
}

func (r *balancesRepo) Get(ctx context.Context, userID int64) (models.UserBalance, error) {
	if err := latency(ctx, r.latency/2); err != nil {
		return models.UserBalance{}, err
	}
	r.mu.RLock()
	b, ok := r.rows[userID]
	r.mu.RUnlock()
	if !ok {
		return models.UserBalance{ID: userID, UpdateMillis: r.now().UnixMilli()}, nil
	}
	return b, nil
}

// Upsert waits out the simulated write latency before touching the map, so a
// cancelled write never lands.
func (r *balancesRepo) Upsert(ctx context.Context, userID, point int64) (models.UserBalance, error) {
	if err := latency(ctx, r.latency); err != nil {
		return models.UserBalance{}, err
	}
	b := models.UserBalance{ID: userID, Point: point, UpdateMillis: r.now().UnixMilli()}
	r.mu.Lock()
	r.rows[userID] = b
	r.mu.Unlock()
	return b, nil
}
