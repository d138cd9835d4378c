// Package handler exposes NDA signing. A repeat sign is a 409 carrying the
// original record, so clients can treat it as idempotent.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"richideia/internal/nda"
	"richideia/internal/platform/metrics"
	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type Service interface {
	Sign(ctx context.Context, userID domain.UserID, ideaID domain.IdeaID, ip string) (nda.NDA, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]nda.NDA, error)
}

type Handler struct {
	logger  *slog.Logger
	ndas    Service
	metrics *metrics.Metrics
}

func New(ndas Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, ndas: ndas, metrics: m}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/ndas/sign", h.handleSign)
	r.Get("/ndas", h.handleList)
}

type signRequest struct {
	IdeaID string `json:"idea_id"`
}

type ndaResponse struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	IdeaID   string    `json:"idea_id"`
	SignedAt time.Time `json:"signed_at"`
}

func toNDAResponse(record nda.NDA) ndaResponse {
	return ndaResponse{
		ID:       record.ID.String(),
		UserID:   record.UserID.String(),
		IdeaID:   record.IdeaID.String(),
		SignedAt: record.SignedAt,
	}
}

func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	ideaID, err := domain.ParseIdeaID(req.IdeaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.ndas.Sign(ctx, principal.ID, ideaID, clientIP(r))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeAlreadySigned) {
			// The existing record rides along with the conflict.
			httputil.WriteJSON(w, http.StatusConflict, map[string]any{
				"error":             string(dErrors.CodeAlreadySigned),
				"error_description": dErrors.MessageOf(err),
				"nda":               toNDAResponse(record),
			})
			return
		}
		h.logger.WarnContext(ctx, "nda sign rejected",
			"request_id", middleware.GetRequestID(ctx),
			"idea_id", ideaID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.NDAsSigned.Inc()
	}
	httputil.WriteJSON(w, http.StatusCreated, toNDAResponse(record))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	records, err := h.ndas.ListByUser(ctx, principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]ndaResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toNDAResponse(record))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"ndas": out})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
