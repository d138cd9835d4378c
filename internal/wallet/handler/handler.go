// Package handler exposes the wallet over HTTP: deposits in, balance out.
// Debits have no endpoint; only the purchase orchestrator moves money out.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"richideia/internal/platform/metrics"
	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type Service interface {
	Deposit(ctx context.Context, userID domain.UserID, amountCents int64) (int64, error)
	Balance(ctx context.Context, userID domain.UserID) (int64, error)
}

type Handler struct {
	logger  *slog.Logger
	wallet  Service
	metrics *metrics.Metrics
}

func New(wallet Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, wallet: wallet, metrics: m}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/wallet/deposit", h.handleDeposit)
	r.Get("/wallet", h.handleBalance)
}

type depositRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type balanceResponse struct {
	BalanceCents int64 `json:"balance_cents"`
}

func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	newBalance, err := h.wallet.Deposit(ctx, principal.ID, req.AmountCents)
	if err != nil {
		h.logger.WarnContext(ctx, "deposit rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Deposits.Inc()
	}
	httputil.WriteJSON(w, http.StatusOK, balanceResponse{BalanceCents: newBalance})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	balance, err := h.wallet.Balance(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read balance",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, balanceResponse{BalanceCents: balance})
}
