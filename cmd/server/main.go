// main wires the marketplace trust core: stores, module services, the HTTP
// surface and the outbox worker. Business logic lives in the internal
// packages; this file only connects them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"richideia/internal/catalog"
	catalogHandler "richideia/internal/catalog/handler"
	"richideia/internal/disclosure"
	"richideia/internal/escrow"
	escrowHandler "richideia/internal/escrow/handler"
	httpapi "richideia/internal/http"
	"richideia/internal/jwttoken"
	"richideia/internal/messaging"
	messagingHandler "richideia/internal/messaging/handler"
	"richideia/internal/nda"
	ndaHandler "richideia/internal/nda/handler"
	"richideia/internal/notify"
	notifyHandler "richideia/internal/notify/handler"
	"richideia/internal/outbox"
	"richideia/internal/platform/config"
	"richideia/internal/platform/httpserver"
	"richideia/internal/platform/logger"
	"richideia/internal/platform/metrics"
	platformpostgres "richideia/internal/platform/postgres"
	platformredis "richideia/internal/platform/redis"
	"richideia/internal/ratings"
	ratingsHandler "richideia/internal/ratings/handler"
	"richideia/internal/wallet"
	walletHandler "richideia/internal/wallet/handler"
	platformtx "richideia/pkg/platform/tx"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	wallet  wallet.Store
	catalog catalog.Store
	ndas    nda.Store
	escrow  escrow.Store
	notify  notify.Store
	chat    messaging.Store
	ratings ratings.Store
	outbox  outbox.Store
	runner  platformtx.Runner
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	st, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	walletSvc := wallet.NewService(st.wallet, wallet.WithEvents(st.outbox, st.runner))
	catalogSvc := catalog.NewService(st.catalog)
	ndaSvc := nda.NewService(st.ndas, st.catalog, nda.WithEvents(st.outbox, st.runner))
	disclosureCache := disclosure.NewCache(redisClient, config.DisclosureCacheTTL)
	disclosureSvc := disclosure.NewService(st.catalog, ndaSvc, disclosureCache)
	notifySvc := notify.NewService(st.notify)
	escrowSvc := escrow.NewService(st.escrow, st.catalog, walletSvc, st.notify, st.outbox, st.runner, m)
	chatSvc := messaging.NewService(st.chat, disclosureSvc, st.catalog, ndaSvc, m)
	ratingsSvc := ratings.NewService(st.ratings, st.escrow)

	validator := jwttoken.New(cfg.JWTSigningKey)
	router := httpapi.NewRouter(httpapi.Handlers{
		Catalog:   catalogHandler.New(catalogSvc, disclosureSvc, log),
		Wallet:    walletHandler.New(walletSvc, log, m),
		Escrow:    escrowHandler.New(escrowSvc, log),
		NDA:       ndaHandler.New(ndaSvc, log, m),
		Messaging: messagingHandler.New(chatSvc, log),
		Notify:    notifyHandler.New(notifySvc, log),
		Ratings:   ratingsHandler.New(ratingsSvc, log),
	}, validator, log, m)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting richideia", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := outbox.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		worker := outbox.NewWorker(st.outbox, publisher, log, m)
		g.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Info("kafka not configured, outbox events stay queued")
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildStores selects the storage backend. With a database every store's
// uniqueness and balance invariants are constraint-enforced; without one the
// in-memory stores serve development and tests.
func buildStores(ctx context.Context, cfg config.Server) (stores, func(), error) {
	if cfg.DatabaseURL == "" {
		return stores{
			wallet:  wallet.NewInMemoryStore(),
			catalog: catalog.NewInMemoryStore(),
			ndas:    nda.NewInMemoryStore(),
			escrow:  escrow.NewInMemoryStore(),
			notify:  notify.NewInMemoryStore(),
			chat:    messaging.NewInMemoryStore(),
			ratings: ratings.NewInMemoryStore(),
			outbox:  outbox.NewInMemoryStore(),
			runner:  platformtx.NewMemoryRunner(),
		}, func() {}, nil
	}

	db, err := platformpostgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}
	if err := platformpostgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return stores{}, nil, err
	}
	return stores{
		wallet:  wallet.NewPostgres(db),
		catalog: catalog.NewPostgres(db),
		ndas:    nda.NewPostgres(db),
		escrow:  escrow.NewPostgres(db),
		notify:  notify.NewPostgres(db),
		chat:    messaging.NewPostgres(db),
		ratings: ratings.NewPostgres(db),
		outbox:  outbox.NewPostgres(db),
		runner:  platformtx.NewSQLRunner(db),
	}, func() { _ = db.Close() }, nil
}
