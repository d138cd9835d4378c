// Package handler exposes the purchase flow and transaction history.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"richideia/internal/escrow"
	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type Service interface {
	Buy(ctx context.Context, buyerID domain.UserID, ideaID domain.IdeaID) (escrow.PurchaseReceipt, error)
	Get(ctx context.Context, principal domain.Principal, id domain.TransactionID) (escrow.Transaction, error)
	History(ctx context.Context, userID domain.UserID) ([]escrow.Transaction, error)
}

type Handler struct {
	logger *slog.Logger
	escrow Service
}

func New(escrowSvc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, escrow: escrowSvc}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/transactions/buy", h.handleBuy)
	r.Get("/transactions", h.handleHistory)
	r.Get("/transactions/{id}", h.handleGet)
}

type buyRequest struct {
	IdeaID string `json:"idea_id"`
}

type transactionResponse struct {
	ID              string    `json:"id"`
	BuyerID         string    `json:"buyer_id"`
	SellerID        string    `json:"seller_id"`
	IdeaID          string    `json:"idea_id"`
	AmountCents     int64     `json:"amount_cents"`
	CommissionCents int64     `json:"commission_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type receiptResponse struct {
	Transaction  transactionResponse `json:"transaction"`
	ContractHash string              `json:"contract_hash"`
}

func toTransactionResponse(t escrow.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID.String(),
		BuyerID:         t.BuyerID.String(),
		SellerID:        t.SellerID.String(),
		IdeaID:          t.IdeaID.String(),
		AmountCents:     t.AmountCents,
		CommissionCents: t.CommissionCents,
		Status:          string(t.Status),
		CreatedAt:       t.CreatedAt,
	}
}

func (h *Handler) handleBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ideaID, err := domain.ParseIdeaID(req.IdeaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.escrow.Buy(ctx, principal.ID, ideaID)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase rejected",
			"request_id", middleware.GetRequestID(ctx),
			"idea_id", ideaID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "purchase escrowed",
		"request_id", middleware.GetRequestID(ctx),
		"transaction_id", receipt.Transaction.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, receiptResponse{
		Transaction:  toTransactionResponse(receipt.Transaction),
		ContractHash: receipt.Contract.Hash,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	history, err := h.escrow.History(ctx, principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]transactionResponse, 0, len(history))
	for _, t := range history {
		out = append(out, toTransactionResponse(t))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	txID, err := domain.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	t, err := h.escrow.Get(ctx, principal, txID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTransactionResponse(t))
}
