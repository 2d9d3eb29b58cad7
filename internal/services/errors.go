package services

import (
	"errors"
	"fmt"

	"github.com/baharkarakas/point-ledger/internal/models"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrBalanceLimitExceeded = errors.New("balance limit exceeded")
	ErrInsufficientBalance  = errors.New("insufficient balance")
)

// InvalidAmountError reports a negative amount.
type InvalidAmountError struct{ Amount int64 }

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount: must be >= 0, requested %d", e.Amount)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// BalanceLimitError carries the balance the charge would have produced,
// not the charged amount.
type BalanceLimitError struct{ Balance int64 }

func (e *BalanceLimitError) Error() string {
	return fmt.Sprintf("balance limit exceeded: max %d, resulting balance %d", models.MaxBalance, e.Balance)
}

func (e *BalanceLimitError) Unwrap() error { return ErrBalanceLimitExceeded }

type InsufficientBalanceError struct{ Amount int64 }

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %d", e.Amount)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// failureReason maps an error to the metrics label used for it.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrBalanceLimitExceeded):
		return "balance_limit_exceeded"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "store_error"
	}
}
