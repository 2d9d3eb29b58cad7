package models

import "fmt"

type TransactionType string

const (
	TxnCharge TransactionType = "CHARGE"
	TxnUse    TransactionType = "USE"
)

func (t TransactionType) Valid() bool { return t == TxnCharge || t == TxnUse }

// ParseTransactionType maps a stored type column back to a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// TransactionRecord is one immutable history entry. ID is the log-wide
// sequence number assigned on append.
type TransactionRecord struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	Amount       int64           `json:"amount"`
	Type         TransactionType `json:"type"`
	UpdateMillis int64           `json:"updateMillis"`
}
