package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"richideia/internal/catalog"
	catalogHandler "richideia/internal/catalog/handler"
	"richideia/internal/disclosure"
	"richideia/internal/escrow"
	escrowHandler "richideia/internal/escrow/handler"
	"richideia/internal/jwttoken"
	"richideia/internal/messaging"
	messagingHandler "richideia/internal/messaging/handler"
	"richideia/internal/nda"
	ndaHandler "richideia/internal/nda/handler"
	"richideia/internal/notify"
	notifyHandler "richideia/internal/notify/handler"
	"richideia/internal/outbox"
	"richideia/internal/platform/metrics"
	"richideia/internal/ratings"
	ratingsHandler "richideia/internal/ratings/handler"
	"richideia/internal/wallet"
	walletHandler "richideia/internal/wallet/handler"
	"richideia/pkg/domain"
	dErrors "richideia/pkg/domain-errors"
	platformtx "richideia/pkg/platform/tx"
	"richideia/pkg/testutil"
)

var routerMetrics = metrics.New()

type marketplace struct {
	router http.Handler
	tokens *jwttoken.Service
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := routerMetrics

	walletStore := wallet.NewInMemoryStore()
	catalogStore := catalog.NewInMemoryStore()
	ndaStore := nda.NewInMemoryStore()
	escrowStore := escrow.NewInMemoryStore()
	notifyStore := notify.NewInMemoryStore()
	chatStore := messaging.NewInMemoryStore()
	ratingsStore := ratings.NewInMemoryStore()
	outboxStore := outbox.NewInMemoryStore()
	runner := platformtx.NewMemoryRunner()

	walletSvc := wallet.NewService(walletStore)
	catalogSvc := catalog.NewService(catalogStore)
	ndaSvc := nda.NewService(ndaStore, catalogStore)
	disclosureSvc := disclosure.NewService(catalogStore, ndaSvc, nil)
	notifySvc := notify.NewService(notifyStore)
	escrowSvc := escrow.NewService(escrowStore, catalogStore, walletSvc, notifyStore, outboxStore, runner, nil)
	chatSvc := messaging.NewService(chatStore, disclosureSvc, catalogStore, ndaSvc, nil)
	ratingsSvc := ratings.NewService(ratingsStore, escrowStore)

	tokens := jwttoken.New("test-signing-key")
	router := NewRouter(Handlers{
		Catalog:   catalogHandler.New(catalogSvc, disclosureSvc, logger),
		Wallet:    walletHandler.New(walletSvc, logger, nil),
		Escrow:    escrowHandler.New(escrowSvc, logger),
		NDA:       ndaHandler.New(ndaSvc, logger, nil),
		Messaging: messagingHandler.New(chatSvc, logger),
		Notify:    notifyHandler.New(notifySvc, logger),
		Ratings:   ratingsHandler.New(ratingsSvc, logger),
	}, tokens, logger, m)

	return &marketplace{router: router, tokens: tokens}
}

func TestPurchaseFlow_EndToEnd(t *testing.T) {
	mp := newMarketplace(t)
	creator := domain.Principal{ID: domain.NewUserID(), Role: domain.RoleCreator}
	buyer := domain.Principal{ID: domain.NewUserID(), Role: domain.RoleBuyer}

	creatorToken, err := mp.tokens.Generate(creator, time.Hour)
	require.NoError(t, err)
	buyerToken, err := mp.tokens.Generate(buyer, time.Hour)
	require.NoError(t, err)

	var (
		ideaID string
		txn    map[string]any
	)

	testutil.Given(t, "a creator lists an idea for $500", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/ideas", map[string]any{
			"title":          "Cold-chain tracker",
			"problem_solved": "spoilage in transit",
			"sector":         "logistics",
			"price_cents":    50_000,
			"maturity_level": "mvp",
			"description":    "sensor mesh plus fleet dashboard",
		})
		req.Header.Set("Authorization", "Bearer "+creatorToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		idea := testutil.UnmarshalResponse[map[string]any](t, rr)
		ideaID = (*idea)["id"].(string)
	})

	testutil.Then(t, "a buyer sees only the partial projection", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/ideas/"+ideaID, nil)
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		partial := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Empty(t, (*partial)["description"], "partial projection must omit the description")
		assert.Equal(t, true, (*partial)["nda_required"])
	})

	testutil.Then(t, "chat stays locked pre-signature", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/chat/"+ideaID, map[string]string{
			"receiver_id": creator.ID.String(),
			"content":     "tell me more",
		})
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	testutil.When(t, "the buyer signs the NDA", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/ndas/sign", map[string]string{"idea_id": ideaID})
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})

	testutil.Then(t, "the full description unlocks", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/ideas/"+ideaID, nil)
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		full := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, "sensor mesh plus fleet dashboard", (*full)["description"])
	})

	testutil.When(t, "the buyer deposits $500 and buys", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/wallet/deposit", map[string]any{"amount_cents": 50_000})
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		req = testutil.NewJSONRequest(t, http.MethodPost, "/transactions/buy", map[string]string{"idea_id": ideaID})
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr = testutil.DoRequest(mp.router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		receipt := testutil.UnmarshalResponse[map[string]any](t, rr)
		txn = (*receipt)["transaction"].(map[string]any)
		assert.Equal(t, "escrow", txn["status"])
		assert.Equal(t, float64(50_000), txn["amount_cents"])
		assert.Equal(t, float64(5_000), txn["commission_cents"])
		assert.NotEmpty(t, (*receipt)["contract_hash"])
	})

	testutil.Then(t, "the wallet is drained and the seller notified", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/wallet", nil)
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		balance := testutil.UnmarshalResponse[map[string]float64](t, rr)
		assert.Zero(t, (*balance)["balance_cents"])

		req = testutil.NewJSONRequest(t, http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer "+creatorToken)
		rr = testutil.DoRequest(mp.router, req)
		sellerFeed := testutil.UnmarshalResponse[map[string][]map[string]any](t, rr)
		require.Len(t, (*sellerFeed)["notifications"], 1)
		assert.Equal(t, "Idea sold", (*sellerFeed)["notifications"][0]["title"])
	})

	testutil.Then(t, "a second buy with an empty wallet fails without side effects", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/transactions/buy", map[string]string{"idea_id": ideaID})
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInsufficientFunds))
	})

	testutil.Then(t, "the buyer rates the deal", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/ratings", map[string]any{
			"transaction_id": txn["id"],
			"score":          5,
			"comment":        "clean handoff",
		})
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr := testutil.DoRequest(mp.router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)

		req = testutil.NewJSONRequest(t, http.MethodGet, "/users/"+creator.ID.String()+"/ratings", nil)
		req.Header.Set("Authorization", "Bearer "+buyerToken)
		rr = testutil.DoRequest(mp.router, req)
		summary := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, float64(5), (*summary)["average"])
	})
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	mp := newMarketplace(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/wallet", nil)
	rr := testutil.DoRequest(mp.router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestRouter_HealthAndMetricsOpen(t *testing.T) {
	mp := newMarketplace(t)

	rr := testutil.DoRequest(mp.router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(mp.router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
