package models

import "time"

// MaxBalance is the upper bound on any user's point balance.
const MaxBalance int64 = 1_000_000

type UserBalance struct {
	ID           int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

// EmptyBalance is the implicit record of a user that was never written.
func EmptyBalance(userID int64) UserBalance {
	return UserBalance{ID: userID, Point: 0, UpdateMillis: time.Now().UnixMilli()}
}
