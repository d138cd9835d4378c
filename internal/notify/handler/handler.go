// Package handler exposes the notification feed.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"richideia/internal/notify"
	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type Service interface {
	List(ctx context.Context, userID domain.UserID) ([]notify.Notification, error)
	MarkRead(ctx context.Context, userID domain.UserID, id domain.NotificationID) error
}

type Handler struct {
	logger        *slog.Logger
	notifications Service
}

func New(notifications Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, notifications: notifications}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.handleList)
	r.Post("/notifications/read", h.handleMarkRead)
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	feed, err := h.notifications.List(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]notificationResponse, 0, len(feed))
	for _, n := range feed {
		out = append(out, notificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

type markReadRequest struct {
	NotificationID string `json:"notification_id"`
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	id, err := domain.ParseNotificationID(req.NotificationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.notifications.MarkRead(ctx, principal.ID, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
