package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/baharkarakas/point-ledger/internal/lock"
	"github.com/baharkarakas/point-ledger/internal/metrics"
	"github.com/baharkarakas/point-ledger/internal/models"
	repo "github.com/baharkarakas/point-ledger/internal/repository"
)

// PointService owns per-user balance and history consistency. Charge and Use
// hold the user's lock across read, validate, write and append.
type PointService struct {
	bal   repo.Balances
	hist  repo.Histories
	tx    repo.TxRunner
	locks *lock.Registry
	log   *slog.Logger
	now   func() time.Time

	strictReads bool
}

type Option func(*PointService)

// WithStrictReads makes Balance and History take the user's lock in shared
// mode, so they never observe a mutation in flight.
func WithStrictReads() Option {
	return func(s *PointService) { s.strictReads = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *PointService) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *PointService) { s.now = now }
}

func NewPointService(r repo.Repositories, locks *lock.Registry, opts ...Option) *PointService {
	s := &PointService{
		bal:   r.Balances,
		hist:  r.Histories,
		tx:    r.Tx,
		locks: locks,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ----------------- Queries -----------------

func (s *PointService) Balance(ctx context.Context, userID int64) (models.UserBalance, error) {
	if s.strictReads {
		mu := s.locks.Get(userID)
		mu.RLock()
		defer mu.RUnlock()
	}
	return s.bal.Get(ctx, userID)
}

func (s *PointService) History(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	if s.strictReads {
		mu := s.locks.Get(userID)
		mu.RLock()
		defer mu.RUnlock()
	}
	return s.hist.ListByUser(ctx, userID)
}

// ----------------- Mutations -----------------

// Charge credits amount to the user. A negative amount is rejected before the
// lock is taken; a charge that would push the balance above MaxBalance is
// rejected with the would-be balance.
func (s *PointService) Charge(ctx context.Context, userID, amount int64) (models.UserBalance, error) {
	if amount < 0 {
		return s.fail(userID, models.TxnCharge, &InvalidAmountError{Amount: amount})
	}
	return s.mutate(ctx, userID, amount, models.TxnCharge, func(cur int64) (int64, error) {
		if amount > models.MaxBalance-cur {
			return 0, &BalanceLimitError{Balance: saturatingAdd(cur, amount)}
		}
		return cur + amount, nil
	})
}

// Use debits amount from the user. All validation happens inside the
// critical section, after the current balance is read.
func (s *PointService) Use(ctx context.Context, userID, amount int64) (models.UserBalance, error) {
	return s.mutate(ctx, userID, amount, models.TxnUse, func(cur int64) (int64, error) {
		if amount < 0 {
			return 0, &InvalidAmountError{Amount: amount}
		}
		if cur < amount {
			return 0, &InsufficientBalanceError{Amount: amount}
		}
		return cur - amount, nil
	})
}

// mutate runs one read-validate-write-append unit under the user's lock.
func (s *PointService) mutate(ctx context.Context, userID, amount int64, typ models.TransactionType, apply func(cur int64) (int64, error)) (models.UserBalance, error) {
	mu := s.locks.Get(userID)
	s.lockTimed(mu)
	defer mu.Unlock()

	var out models.UserBalance
	err := s.tx.WithTx(ctx, func(b repo.Balances, h repo.Histories) error {
		cur, err := b.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("read balance: %w", err)
		}
		next, err := apply(cur.Point)
		if err != nil {
			return err
		}
		if out, err = b.Upsert(ctx, userID, next); err != nil {
			return fmt.Errorf("write balance: %w", err)
		}
		if _, err := h.Append(ctx, userID, amount, typ, s.now()); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.fail(userID, typ, err)
	}

	metrics.TransactionsTotal.WithLabelValues(string(typ)).Inc()
	s.log.Debug("point transaction applied", "user_id", userID, "type", typ, "amount", amount, "balance", out.Point)
	return out, nil
}

func (s *PointService) lockTimed(mu *sync.RWMutex) {
	start := time.Now()
	mu.Lock()
	metrics.LockWait.Observe(time.Since(start).Seconds())
	metrics.LockRegistrySize.Set(float64(s.locks.Len()))
}

func (s *PointService) fail(userID int64, typ models.TransactionType, err error) (models.UserBalance, error) {
	reason := failureReason(err)
	metrics.TransactionsFailed.WithLabelValues(string(typ), reason).Inc()
	if reason == "store_error" {
		s.log.Error("point transaction failed", "user_id", userID, "type", typ, "err", err)
	} else {
		s.log.Warn("point transaction rejected", "user_id", userID, "type", typ, "reason", reason, "err", err)
	}
	return models.UserBalance{}, err
}

// saturatingAdd adds two non-negative values, clamping at math.MaxInt64.
func saturatingAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrBalanceLimitExceeded) ||
		errors.Is(err, ErrInsufficientBalance)
}
