// Package handler exposes the idea catalog over HTTP. The detail view goes
// through the disclosure gate; the listing always shows partial projections.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"richideia/internal/catalog"
	"richideia/internal/disclosure"
	"richideia/internal/platform/middleware"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/platform/httputil"
)

type CatalogService interface {
	Create(ctx context.Context, principal domain.Principal, in catalog.NewIdea) (catalog.Idea, error)
	ListActive(ctx context.Context) ([]catalog.Idea, error)
}

type DisclosureService interface {
	View(ctx context.Context, principal domain.Principal, ideaID domain.IdeaID) (disclosure.Projection, error)
}

type Handler struct {
	logger     *slog.Logger
	catalog    CatalogService
	disclosure DisclosureService
}

func New(catalogSvc CatalogService, disclosureSvc DisclosureService, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, catalog: catalogSvc, disclosure: disclosureSvc}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/ideas", h.handleList)
	r.Post("/ideas", h.handleCreate)
	r.Get("/ideas/{id}", h.handleGet)
}

type createIdeaRequest struct {
	Title         string `json:"title"`
	ProblemSolved string `json:"problem_solved"`
	Sector        string `json:"sector"`
	PriceCents    int64  `json:"price_cents"`
	MaturityLevel string `json:"maturity_level"`
	Description   string `json:"description"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req createIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	idea, err := h.catalog.Create(ctx, principal, catalog.NewIdea{
		Title:         req.Title,
		ProblemSolved: req.ProblemSolved,
		Sector:        req.Sector,
		PriceCents:    req.PriceCents,
		MaturityLevel: req.MaturityLevel,
		Description:   req.Description,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "idea creation rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	// The creator sees their own idea in full.
	httputil.WriteJSON(w, http.StatusCreated, disclosure.Project(idea, disclosure.AccessFull))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ideas, err := h.catalog.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list ideas",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	out := make([]disclosure.Projection, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, disclosure.Project(idea, disclosure.AccessPartial))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"ideas": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	ideaID, err := domain.ParseIdeaID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	projection, err := h.disclosure.View(ctx, principal, ideaID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, projection)
}
