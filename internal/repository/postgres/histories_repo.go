package postgres

import (
	"context"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
)

type historiesRepo struct{ q querier }

func (r *historiesRepo) Append(ctx context.Context, userID, amount int64, typ models.TransactionType, at time.Time) (models.TransactionRecord, error) {
	rec := models.TransactionRecord{
		UserID:       userID,
		Amount:       amount,
		Type:         typ,
		UpdateMillis: at.UnixMilli(),
	}
	err := r.q.QueryRow(ctx,
		`INSERT INTO point_histories(user_id, amount, type, created_at)
		 VALUES($1, $2, $3, $4)
		 RETURNING id`,
		userID, amount, string(typ), at,
	).Scan(&rec.ID)
	return rec, err
}

func (r *historiesRepo) ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, amount, type, created_at
		   FROM point_histories
		  WHERE user_id=$1
		  ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.TransactionRecord, 0)
	for rows.Next() {
		var (
			rec models.TransactionRecord
			typ string
			at  time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Amount, &typ, &at); err != nil {
			return nil, err
		}
		if rec.Type, err = models.ParseTransactionType(typ); err != nil {
			return nil, err
		}
		rec.UpdateMillis = at.UnixMilli()
		out = append(out, rec)
	}
	return out, rows.Err()
}
