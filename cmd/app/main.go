package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/packworks/packworks/internal/bootstrap"
	"github.com/packworks/packworks/internal/catalog"
	"github.com/packworks/packworks/internal/collection"
	"github.com/packworks/packworks/internal/config"
	"github.com/packworks/packworks/internal/database"
	"github.com/packworks/packworks/internal/generator"
	"github.com/packworks/packworks/internal/ledger"
	"github.com/packworks/packworks/internal/rarity"
	"github.com/packworks/packworks/internal/reveal"
	"github.com/packworks/packworks/internal/server"
	"github.com/packworks/packworks/internal/shop"
	"github.com/packworks/packworks/internal/worker"
)

const (
	shutdownTimeout    = 10 * time.Second
	evictCommitTimeout = 5 * time.Second

	dbMaxIdleTime = 5 * time.Minute
	dbMaxLifetime = 30 * time.Minute

	sweepWorkerCount = 4
	sweepQueueSize   = 256
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	initLogger(cfg)

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	eventBus, resilientPublisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event system: %v", err)
	}

	discordSession, err := bootstrap.RegisterEventHandlers(cfg, eventBus)
	if err != nil {
		log.Fatalf("Failed to register event handlers: %v", err)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	ledgerService := ledger.NewService(repos.Ledger)

	table, err := rarity.Load(config.ConfigPathRarityTable)
	if err != nil {
		log.Fatalf("Failed to load rarity tables: %v", err)
	}
	cardCatalog, err := catalog.Load(config.ConfigPathCardCatalog)
	if err != nil {
		log.Fatalf("Failed to load card catalog: %v", err)
	}
	packs, err := shop.LoadPacks(config.ConfigPathPacks)
	if err != nil {
		log.Fatalf("Failed to load pack definitions: %v", err)
	}

	generatorService := generator.NewService(table, cardCatalog)
	shopService := shop.NewService(packs, generatorService, ledgerService, resilientPublisher)

	collectionService := collection.NewService(repos.Collection, ledgerService, resilientPublisher, collection.Config{
		ExpiryWindow: cfg.ExpiryWindow(),
		ShippingFee:  cfg.ShippingFee,
	})

	// Abandoned sessions still deliver their cards: the eviction hook commits
	// whatever was generated, and the per-session commit record keeps replays
	// harmless.
	revealStore := reveal.NewStore(reveal.DefaultStoreSize, reveal.DefaultStoreTTL, func(sess *reveal.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), evictCommitTimeout)
		defer cancel()
		if err := collectionService.Commit(ctx, sess.UserID(), sess.ID(), sess.Delivered()); err != nil {
			slog.Error("Failed to commit evicted reveal session",
				"session_id", sess.ID(), "user_id", sess.UserID(), "error", err)
		}
	})

	workerPool := worker.NewPool(sweepWorkerCount, sweepQueueSize)
	workerPool.Start()

	sweepWorker := worker.NewExpirySweepWorker(collectionService, repos.Collection, workerPool, cfg.SweepInterval)
	sweepWorker.Start()

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool,
		shopService, collectionService, ledgerService, revealStore, repos.Users)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		RevealStore:        revealStore,
		SweepWorker:        sweepWorker,
		WorkerPool:         workerPool,
		ResilientPublisher: resilientPublisher,
		Discord:            discordSession,
		DBPool:             dbPool,
	})
}
