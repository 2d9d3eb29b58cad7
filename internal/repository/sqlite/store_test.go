package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "points.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBalanceUpsertAndGet(t *testing.T) {
	repos := openStore(t).Repositories()
	ctx := context.Background()

	b, err := repos.Balances.Get(ctx, 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.ID != 5 || b.Point != 0 {
		t.Fatalf("expected synthesized zero balance, got %+v", b)
	}

	if _, err := repos.Balances.Upsert(ctx, 5, 1200); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := repos.Balances.Upsert(ctx, 5, 800); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	b, err = repos.Balances.Get(ctx, 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Point != 800 {
		t.Fatalf("expected 800, got %d", b.Point)
	}
}

func TestHistoryOrdering(t *testing.T) {
	repos := openStore(t).Repositories()
	ctx := context.Background()
	now := time.Now()

	for i, typ := range []models.TransactionType{models.TxnCharge, models.TxnUse, models.TxnCharge} {
		if _, err := repos.Histories.Append(ctx, 7, int64(i+1)*100, typ, now); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if _, err := repos.Histories.Append(ctx, 8, 1, models.TxnCharge, now); err != nil {
		t.Fatalf("Append: %v", err)
	}

	list, err := repos.Histories.ListByUser(ctx, 7)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if list[0].Amount != 100 || list[1].Type != models.TxnUse || list[2].Amount != 300 {
		t.Fatalf("unexpected ordering %#v", list)
	}
	if list[0].ID >= list[1].ID || list[1].ID >= list[2].ID {
		t.Fatalf("ids not increasing %#v", list)
	}
	if list[0].UpdateMillis != now.UnixMilli() {
		t.Fatalf("timestamp not preserved: %d", list[0].UpdateMillis)
	}

	empty, err := repos.Histories.ListByUser(ctx, 99)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty slice, got %#v", empty)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	repos := openStore(t).Repositories()
	ctx := context.Background()
	boom := errors.New("boom")

	err := repos.Tx.WithTx(ctx, func(b repo.Balances, h repo.Histories) error {
		if _, err := b.Upsert(ctx, 1, 500); err != nil {
			return err
		}
		if _, err := h.Append(ctx, 1, 500, models.TxnCharge, time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	b, _ := repos.Balances.Get(ctx, 1)
	list, _ := repos.Histories.ListByUser(ctx, 1)
	if b.Point != 0 || len(list) != 0 {
		t.Fatalf("rolled back tx left state: balance %+v history %+v", b, list)
	}
}

func TestBalanceCheckConstraint(t *testing.T) {
	repos := openStore(t).Repositories()
	if _, err := repos.Balances.Upsert(context.Background(), 1, models.MaxBalance+1); err == nil {
		t.Fatal("expected constraint violation above max balance")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Repositories().Balances.Upsert(ctx, 3, 42); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_ = store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	b, err := store.Repositories().Balances.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Point != 42 {
		t.Fatalf("expected 42 after reopen, got %d", b.Point)
	}
}

func TestGetOnClosedStoreReturnsZeroValue(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "points.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	repos := store.Repositories()
	ctx := context.Background()
	if _, err := repos.Balances.Upsert(ctx, 4, 70); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	_ = store.Close()

	b, err := repos.Balances.Get(ctx, 4)
	if err == nil {
		t.Fatal("expected error from closed store")
	}
	if b != (models.UserBalance{}) {
		t.Fatalf("expected zero balance alongside error, got %+v", b)
	}
}
