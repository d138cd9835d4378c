// Package handler exposes post-deal ratings.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"richideia/internal/platform/middleware"
	"richideia/internal/ratings"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type Service interface {
	Rate(ctx context.Context, raterID domain.UserID, transactionID domain.TransactionID, score int, comment string) (ratings.Rating, error)
	ForUser(ctx context.Context, userID domain.UserID) (ratings.Summary, error)
}

type Handler struct {
	logger  *slog.Logger
	ratings Service
}

func New(ratingsSvc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, ratings: ratingsSvc}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/ratings", h.handleRate)
	r.Get("/users/{id}/ratings", h.handleForUser)
}

type rateRequest struct {
	TransactionID string `json:"transaction_id"`
	Score         int    `json:"score"`
	Comment       string `json:"comment"`
}

type ratingResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	FromUserID    string    `json:"from_user_id"`
	ToUserID      string    `json:"to_user_id"`
	Score         int       `json:"score"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toRatingResponse(r ratings.Rating) ratingResponse {
	return ratingResponse{
		ID:            r.ID.String(),
		TransactionID: r.TransactionID.String(),
		FromUserID:    r.FromUserID.String(),
		ToUserID:      r.ToUserID.String(),
		Score:         r.Score,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

func (h *Handler) handleRate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	txID, err := domain.ParseTransactionID(req.TransactionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rating, err := h.ratings.Rate(ctx, principal.ID, txID, req.Score, req.Comment)
	if err != nil {
		h.logger.WarnContext(ctx, "rating rejected",
			"request_id", middleware.GetRequestID(ctx),
			"transaction_id", txID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (h *Handler) handleForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := domain.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summary, err := h.ratings.ForUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]ratingResponse, 0, len(summary.Ratings))
	for _, rating := range summary.Ratings {
		out = append(out, toRatingResponse(rating))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"ratings": out,
		"average": summary.Average,
		"count":   summary.Count,
	})
}
