package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
)

func TestBalancesGetMissingIsZero(t *testing.T) {
	repos := NewRepositories()
	b, err := repos.Balances.Get(context.Background(), 9)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.ID != 9 || b.Point != 0 {
		t.Fatalf("expected zero balance for user 9, got %+v", b)
	}
}

func TestBalancesUpsertReplaces(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	repos := NewRepositories(WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	if _, err := repos.Balances.Upsert(ctx, 1, 500); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	b, err := repos.Balances.Upsert(ctx, 1, 300)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if b.Point != 300 || b.UpdateMillis != fixed.UnixMilli() {
		t.Fatalf("unexpected upsert result %+v", b)
	}
	got, _ := repos.Balances.Get(ctx, 1)
	if got != b {
		t.Fatalf("Get returned %+v, want %+v", got, b)
	}
}

func TestBalancesUpsertCancelledDoesNotWrite(t *testing.T) {
	repos := NewRepositories(WithLatency(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repos.Balances.Upsert(ctx, 1, 100); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	got, err := repos.Balances.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Point != 0 {
		t.Fatalf("cancelled write landed: %+v", got)
	}
}

func TestHistoriesAppendOrderAndSequence(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	now := time.Now()

	mustAppend := func(user, amount int64, typ models.TransactionType) models.TransactionRecord {
		rec, err := repos.Histories.Append(ctx, user, amount, typ, now)
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		return rec
	}
	a := mustAppend(1, 500, models.TxnCharge)
	mustAppend(2, 10, models.TxnCharge)
	c := mustAppend(1, 200, models.TxnUse)

	if a.ID != 1 || c.ID != 3 {
		t.Fatalf("expected log-wide sequence 1 and 3, got %d and %d", a.ID, c.ID)
	}

	list, err := repos.Histories.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0] != a || list[1] != c {
		t.Fatalf("unexpected history %+v", list)
	}

	empty, err := repos.Histories.ListByUser(ctx, 42)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestHistoriesListIsCopy(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	_, _ = repos.Histories.Append(ctx, 1, 5, models.TxnCharge, time.Now())

	list, _ := repos.Histories.ListByUser(ctx, 1)
	list[0].Amount = 999

	again, _ := repos.Histories.ListByUser(ctx, 1)
	if again[0].Amount != 5 {
		t.Fatalf("stored record mutated through returned slice")
	}
}

func TestHistoriesConcurrentAppendUniqueIDs(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(u int64) {
			defer wg.Done()
			_, _ = repos.Histories.Append(ctx, u%4, 1, models.TxnCharge, time.Now())
		}(int64(i))
	}
	wg.Wait()

	seen := map[int64]bool{}
	for u := int64(0); u < 4; u++ {
		list, _ := repos.Histories.ListByUser(ctx, u)
		for i, rec := range list {
			if seen[rec.ID] {
				t.Fatalf("duplicate sequence id %d", rec.ID)
			}
			seen[rec.ID] = true
			if i > 0 && list[i-1].ID >= rec.ID {
				t.Fatalf("user %d history out of order", u)
			}
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d records, got %d", n, len(seen))
	}
}

func TestTxRunnerPassesStores(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()
	err := repos.Tx.WithTx(ctx, func(b repo.Balances, h repo.Histories) error {
		if _, err := b.Upsert(ctx, 3, 70); err != nil {
			return err
		}
		_, err := h.Append(ctx, 3, 70, models.TxnCharge, time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	b, _ := repos.Balances.Get(ctx, 3)
	list, _ := repos.Histories.ListByUser(ctx, 3)
	if b.Point != 70 || len(list) != 1 {
		t.Fatalf("unexpected state: balance %+v history %+v", b, list)
	}
}
