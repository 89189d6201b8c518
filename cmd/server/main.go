// Package main is the entry point for the CampMatch server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campmatch/backend/internal/api"
	"github.com/campmatch/backend/internal/booking"
	"github.com/campmatch/backend/internal/catalog"
	"github.com/campmatch/backend/internal/config"
	"github.com/campmatch/backend/internal/logger"
	"github.com/campmatch/backend/internal/querylog"
	"github.com/campmatch/backend/internal/recommend"
	"github.com/campmatch/backend/internal/search"
	"github.com/campmatch/backend/internal/storage"
	"github.com/campmatch/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	configFile := flag.String("config", "", "Path to config file")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Server.Port); err != nil {
			fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting campmatch server", zap.String("version", version))

	db, err := storage.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.RunMigrations(db, log); err != nil {
		log.Fatal("running migrations", zap.Error(err))
	}
	log.Info("database ready", zap.String("path", db.Path()))

	hub := websocket.NewHub(log)
	go hub.Run()
	broadcaster := websocket.NewEventBroadcaster(hub, log)

	campRepo := storage.NewCampgroundRepository(db)
	userRepo := storage.NewUserRepository(db)
	bookingRepo := storage.NewBookingRepository(db)
	cartRepo := storage.NewCartRepository(db)

	importer := catalog.NewImporter(campRepo, userRepo, bookingRepo, log)
	if _, err := importer.Import(context.Background(), cfg.Catalog.SeedDir); err != nil {
		log.Warn("initial catalog import failed", zap.Error(err))
	}

	extractor := recommend.NewExtractor(recommend.NewProseRecognizer(), cfg.Extractor.Vocabulary())
	queryLog := querylog.New(cfg.QueryLog.Dir)

	searchService := search.NewService(
		extractor, campRepo, bookingRepo, userRepo,
		queryLog, cfg.Match.MatchOptions(), log,
	)
	bookingService := booking.NewService(db, campRepo, bookingRepo, cartRepo, broadcaster, log)

	catalogScheduler := catalog.NewScheduler(importer, broadcaster, cfg.Catalog.SeedDir, cfg.Catalog.SyncInterval, log)
	if err := catalogScheduler.Start(); err != nil {
		log.Warn("starting catalog scheduler", zap.Error(err))
	}

	statusScheduler := booking.NewStatusScheduler(bookingRepo, broadcaster, log)
	if err := statusScheduler.Start(); err != nil {
		log.Warn("starting booking status scheduler", zap.Error(err))
	}
	// Bring statuses current before the first tick.
	statusScheduler.Run()

	router := api.NewRouter(api.Deps{
		DB:             db,
		Hub:            hub,
		Broadcaster:    broadcaster,
		CampgroundRepo: campRepo,
		UserRepo:       userRepo,
		SearchService:  searchService,
		BookingService: bookingService,
		StaticDir:      cfg.Server.StaticDir,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Addr()))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	catalogScheduler.Stop()
	statusScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(port int) error {
	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/health", port))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return nil
}
