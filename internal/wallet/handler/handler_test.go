package handler

//go:generate mockgen -source=handler.go -destination=mocks/wallet-mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"richideia/internal/wallet/handler/mocks"
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

func TestHandleDeposit(t *testing.T) {
	r, mockService := newTestRouter(t)
	principal := testutil.Buyer()
	mockService.EXPECT().
		Deposit(gomock.Any(), principal.ID, int64(50_000)).
		Return(int64(50_000), nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/wallet/deposit", map[string]any{"amount_cents": 50_000})
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, principal))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string]int64](t, rr)
	if (*resp)["balance_cents"] != 50_000 {
		t.Fatalf("unexpected balance: %v", *resp)
	}
}

func TestHandleDeposit_RejectedAmount(t *testing.T) {
	r, mockService := newTestRouter(t)
	principal := testutil.Buyer()
	mockService.EXPECT().
		Deposit(gomock.Any(), principal.ID, int64(-5)).
		Return(int64(0), dErrors.New(dErrors.CodeValidation, "deposit amount must be positive"))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/wallet/deposit", map[string]any{"amount_cents": -5})
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, principal))

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
}

func TestHandleDeposit_InvalidBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/wallet/deposit", nil)
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, testutil.Buyer()))

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
}

func TestHandleDeposit_Unauthenticated(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/wallet/deposit", map[string]any{"amount_cents": 100})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
}

func TestHandleBalance(t *testing.T) {
	r, mockService := newTestRouter(t)
	principal := testutil.Buyer()
	mockService.EXPECT().
		Balance(gomock.Any(), principal.ID).
		Return(int64(12_345), nil)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/wallet", nil)
	rr := testutil.DoRequest(r, testutil.WithPrincipal(req, principal))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string]int64](t, rr)
	if (*resp)["balance_cents"] != 12_345 {
		t.Fatalf("unexpected balance: %v", *resp)
	}
}
