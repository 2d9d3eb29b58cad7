package sqlite

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
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO point_histories(user_id, amount, type, update_millis) VALUES(?, ?, ?, ?)`,
		rec.UserID, rec.Amount, string(rec.Type), rec.UpdateMillis,
	)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return models.TransactionRecord{}, err
	}
	return rec, nil
}

func (r *historiesRepo) ListByUser(ctx context.Context, userID int64) ([]models.TransactionRecord, error) {
	rows, err := r.q.QueryContext(ctx, `
SELECT id, user_id, amount, type, update_millis
FROM point_histories
WHERE user_id = ?
ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.TransactionRecord, 0)
	for rows.Next() {
		var (
			rec models.TransactionRecord
			typ string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Amount, &typ, &rec.UpdateMillis); err != nil {
			return nil, err
		}
		if rec.Type, err = models.ParseTransactionType(typ); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
