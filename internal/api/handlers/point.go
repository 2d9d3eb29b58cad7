package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/point-ledger/internal/api/httpx"
	"github.com/baharkarakas/point-ledger/internal/api/validate"
	"github.com/baharkarakas/point-ledger/internal/middleware"
	"github.com/baharkarakas/point-ledger/internal/models"
	"github.com/baharkarakas/point-ledger/internal/services"
)

// PointLedger is the service surface the handlers need.
type PointLedger interface {
	Balance(ctx context.Context, userID int64) (models.UserBalance, error)
	History(ctx context.Context, userID int64) ([]models.TransactionRecord, error)
	Charge(ctx context.Context, userID, amount int64) (models.UserBalance, error)
	Use(ctx context.Context, userID, amount int64) (models.UserBalance, error)
}

type PointHandler struct {
	svc PointLedger
}

func NewPointHandler(svc PointLedger) *PointHandler {
	return &PointHandler{svc: svc}
}

func (h *PointHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Balance(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *PointHandler) Histories(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	list, err := h.svc.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *PointHandler) Charge(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Charge)
}

func (h *PointHandler) Use(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.svc.Use)
}

func (h *PointHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64) (models.UserBalance, error)) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	amount, ef := validate.Amount(r.Body)
	if ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body", validate.Errs{*ef})
		return
	}
	b, err := op(r.Context(), id, amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ef := validate.ID("id", chi.URLParam(r, "id"))
	if ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid user id", validate.Errs{*ef})
		return 0, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_amount", err.Error(), nil)
	case errors.Is(err, services.ErrBalanceLimitExceeded):
		httpx.WriteError(w, http.StatusBadRequest, "balance_limit_exceeded", err.Error(), nil)
	case errors.Is(err, services.ErrInsufficientBalance):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_balance", err.Error(), nil)
	default:
		slog.Error("point request failed", "err", err, "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
