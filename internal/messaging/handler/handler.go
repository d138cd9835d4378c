// Package handler exposes the gated chat channels.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"richideia/internal/messaging"
	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type Service interface {
	Post(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID, receiverID domain.UserID, content string) (messaging.Message, error)
	List(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) ([]messaging.Message, error)
	ActiveThreads(ctx context.Context, userID domain.UserID) ([]messaging.Thread, error)
}

type Handler struct {
	logger *slog.Logger
	chat   Service
}

func New(chat Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, chat: chat}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/chat/active", h.handleActiveThreads)
	r.Get("/chat/{idea_id}", h.handleList)
	r.Post("/chat/{idea_id}", h.handlePost)
}

type postRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type messageResponse struct {
	ID         string    `json:"id"`
	IdeaID     string    `json:"idea_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type threadResponse struct {
	IdeaID         string    `json:"idea_id"`
	IdeaTitle      string    `json:"idea_title"`
	CounterpartyID string    `json:"counterparty_id"`
	SignedAt       time.Time `json:"signed_at"`
}

func toMessageResponse(m messaging.Message) messageResponse {
	return messageResponse{
		ID:         m.ID.String(),
		IdeaID:     m.IdeaID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	ideaID, err := domain.ParseIdeaID(chi.URLParam(r, "idea_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	receiverID, err := domain.ParseUserID(req.ReceiverID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.chat.Post(ctx, principal, ideaID, receiverID, req.Content)
	if err != nil {
		h.logger.WarnContext(ctx, "message rejected",
			"request_id", middleware.GetRequestID(ctx),
			"idea_id", ideaID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toMessageResponse(m))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	ideaID, err := domain.ParseIdeaID(chi.URLParam(r, "idea_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	msgs, err := h.chat.List(ctx, principal, ideaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (h *Handler) handleActiveThreads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	threads, err := h.chat.ActiveThreads(ctx, principal.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]threadResponse, 0, len(threads))
	for _, th := range threads {
		out = append(out, threadResponse{
			IdeaID:         th.IdeaID.String(),
			IdeaTitle:      th.IdeaTitle,
			CounterpartyID: th.CounterpartyID.String(),
			SignedAt:       th.SignedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"threads": out})
}
