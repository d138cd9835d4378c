// Package httpapi assembles the HTTP surface. Business rules live in the
// module services; this layer only wires routes, middleware and health probes.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	catalogHandler "richideia/internal/catalog/handler"
	escrowHandler "richideia/internal/escrow/handler"
	messagingHandler "richideia/internal/messaging/handler"
	ndaHandler "richideia/internal/nda/handler"
	notifyHandler "richideia/internal/notify/handler"
	"richideia/internal/platform/metrics"
	"richideia/internal/platform/middleware"
	ratingsHandler "richideia/internal/ratings/handler"
	walletHandler "richideia/internal/wallet/handler"
	"richideia/pkg/platform/httputil"
)

const (
	requestTimeout  = 30 * time.Second
	writeRateLimit  = 60
	writeRateWindow = time.Minute
)

// Handlers carries every module's HTTP handler into the router.
type Handlers struct {
	Catalog   *catalogHandler.Handler
	Wallet    *walletHandler.Handler
	Escrow    *escrowHandler.Handler
	NDA       *ndaHandler.Handler
	Messaging *messagingHandler.Handler
	Notify    *notifyHandler.Handler
	Ratings   *ratingsHandler.Handler
}

// NewRouter builds the full route tree. Everything under the API group is
// authenticated; health and metrics stay open.
func NewRouter(h Handlers, validator middleware.JWTValidator, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.RequireAuth(validator, logger))
		api.Use(middleware.RateLimit(writeRateLimit, writeRateWindow))
		h.Catalog.Register(api)
		h.Wallet.Register(api)
		h.Escrow.Register(api)
		h.NDA.Register(api)
		h.Messaging.Register(api)
		h.Notify.Register(api)
		h.Ratings.Register(api)
	})

	return r
}
