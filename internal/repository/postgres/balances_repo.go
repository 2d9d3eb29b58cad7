package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/jackc/pgx/v5"
)

type balancesRepo struct{ q querier }

func (r *balancesRepo) Get(ctx context.Context, userID int64) (models.UserBalance, error) {
	var (
		b  models.UserBalance
		at time.Time
	)
	err := r.q.QueryRow(ctx,
		`SELECT user_id, point, updated_at
		   FROM user_points
		  WHERE user_id=$1`,
		userID,
	).Scan(&b.ID, &b.Point, &at)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.EmptyBalance(userID), nil
	}
	if err != nil {
		return models.UserBalance{}, err
	}
	b.UpdateMillis = at.UnixMilli()
	return b, nil
}

func (r *balancesRepo) Upsert(ctx context.Context, userID, point int64) (models.UserBalance, error) {
	var (
		b  models.UserBalance
		at time.Time
	)
	err := r.q.QueryRow(ctx,
		`INSERT INTO user_points(user_id, point, updated_at)
		 VALUES($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE
		    SET point = EXCLUDED.point,
		        updated_at = EXCLUDED.updated_at
		 RETURNING user_id, point, updated_at`,
		userID, point,
	).Scan(&b.ID, &b.Point, &at)
	if err != nil {
		return models.UserBalance{}, err
	}
	b.UpdateMillis = at.UnixMilli()
	return b, nil
}
