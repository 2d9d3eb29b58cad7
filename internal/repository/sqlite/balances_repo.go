package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
)

type balancesRepo struct{ q querier }

func (r *balancesRepo) Get(ctx context.Context, userID int64) (models.UserBalance, error) {
	var b models.UserBalance
	err := r.q.QueryRowContext(ctx,
		`SELECT user_id, point, update_millis FROM user_points WHERE user_id = ?`, userID,
	).Scan(&b.ID, &b.Point, &b.UpdateMillis)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EmptyBalance(userID), nil
	}
	if err != nil {
		return models.UserBalance{}, err
	}
	return b, nil
}

func (r *balancesRepo) Upsert(ctx context.Context, userID, point int64) (models.UserBalance, error) {
	b := models.UserBalance{ID: userID, Point: point, UpdateMillis: time.Now().UnixMilli()}
	_, err := r.q.ExecContext(ctx, `
INSERT INTO user_points(user_id, point, update_millis) VALUES(?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET point = excluded.point, update_millis = excluded.update_millis`,
		b.ID, b.Point, b.UpdateMillis,
	)
	if err != nil {
		return models.UserBalance{}, err
	}
	return b, nil
}
