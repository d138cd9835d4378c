package handler

//go:generate mockgen -source=handler.go -destination=mocks/nda-mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"richideia/internal/nda"
	"richideia/internal/nda/handler/mocks"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	"richideia/pkg/testutil"
)

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger, nil).Register(r)
	return r, mockService
}

func TestHandleSign(t *testing.T) {
	r, mockService := newTestRouter(t)
	principal := testutil.Buyer()
	ideaID := domain.NewIdeaID()
	record := nda.NDA{
		ID:       domain.NewNDAID(),
		UserID:   principal.ID,
		IdeaID:   ideaID,
		SignedAt: time.Now().UTC(),
	}
	mockService.EXPECT().
		Sign(gomock.Any(), principal.ID, ideaID, gomock.Any()).
		Return(record, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/ndas/sign", map[string]string{"idea_id": ideaID.String()})
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, principal))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, record.ID.String(), (*resp)["id"])
	assert.Equal(t, ideaID.String(), (*resp)["idea_id"])
}

func TestHandleSign_AlreadySignedCarriesOriginal(t *testing.T) {
	r, mockService := newTestRouter(t)
	principal := testutil.Buyer()
	ideaID := domain.NewIdeaID()
	existing := nda.NDA{
		ID:       domain.NewNDAID(),
		UserID:   principal.ID,
		IdeaID:   ideaID,
		SignedAt: time.Now().UTC().Add(-24 * time.Hour),
	}
	mockService.EXPECT().
		Sign(gomock.Any(), principal.ID, ideaID, gomock.Any()).
		Return(existing, dErrors.New(dErrors.CodeAlreadySigned, "nda already signed"))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/ndas/sign", map[string]string{"idea_id": ideaID.String()})
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, principal))

	testutil.AssertStatusAndError(t, rr, http.StatusConflict, string(dErrors.CodeAlreadySigned))
	resp := testutil.UnmarshalResponse[map[string]any](t, rr)
	embedded, ok := (*resp)["nda"].(map[string]any)
	require.True(t, ok, "conflict response must carry the existing record")
	assert.Equal(t, existing.ID.String(), embedded["id"])
}

func TestHandleSign_InvalidIdeaID(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/ndas/sign", map[string]string{"idea_id": "not-a-uuid"})
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, testutil.Buyer()))

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
}

func TestHandleList(t *testing.T) {
	r, mockService := newTestRouter(t)
	principal := testutil.Buyer()
	mockService.EXPECT().
		ListByUser(gomock.Any(), principal.ID).
		Return([]nda.NDA{{ID: domain.NewNDAID(), UserID: principal.ID, IdeaID: domain.NewIdeaID(), SignedAt: time.Now()}}, nil)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/ndas", nil)
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, principal))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string][]map[string]any](t, rr)
	assert.Len(t, (*resp)["ndas"], 1)
}
