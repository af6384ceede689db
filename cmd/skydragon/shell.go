package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/skydragon/internal/auth"
	"github.com/mmynk/skydragon/internal/config"
	"github.com/mmynk/skydragon/internal/feed"
	"github.com/mmynk/skydragon/internal/gateway"
	"github.com/mmynk/skydragon/internal/metrics"
	"github.com/mmynk/skydragon/internal/navigation"
	"github.com/mmynk/skydragon/internal/session"
	"github.com/mmynk/skydragon/internal/share"
	"github.com/mmynk/skydragon/internal/storage"
	"github.com/mmynk/skydragon/internal/storage/sqlite"
	"github.com/mmynk/skydragon/internal/ui"
	"github.com/mmynk/skydragon/pkg/logging"
)

func runShell(ctx context.Context, cfg config.Config) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.SetupWithWriter(logFile, logging.ParseLevel(cfg.LogLevel))

	source, err := openCatalog(cfg.CatalogDB)
	if err != nil {
		return err
	}
	defer source.Close()

	tiers, err := source.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded", "tiers", len(tiers), "source", catalogName(cfg.CatalogDB))

	recorder, err := metrics.NewRecorder(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	store, err := session.NewStore(tiers,
		session.WithLogger(logger),
		session.WithObserver(recorder),
	)
	if err != nil {
		return err
	}
	inbox := session.NewInbox(store,
		session.WithInboxLogger(logger),
		session.WithInboxObserver(recorder),
	)

	navOpts := []navigation.Option{
		navigation.WithTimings(cfg.SplashLoad, cfg.SplashTotal),
		navigation.WithLogger(logger),
		navigation.WithObserver(recorder),
	}
	if cfg.SkipSplash {
		navOpts = append(navOpts, navigation.WithSkipSplash())
	}
	nav := navigation.New(navOpts...)

	var client *feed.Client
	if cfg.FeedURL != "" {
		tokens, err := auth.NewTokenManager(cfg.FeedSecret, cfg.FeedTokenTTL)
		if err != nil {
			return fmt.Errorf("feed: %w", err)
		}
		client = feed.NewClient(cfg.FeedURL, tokens, inbox, feed.WithLogger(logger))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ignoreCanceled(inbox.Run(gctx))
	})

	if client != nil {
		g.Go(func() error {
			return ignoreCanceled(client.Run(gctx))
		})
	}

	if cfg.MetricsAddr != "" {
		srv := newMetricsServer(cfg.MetricsAddr, recorder, logger)
		g.Go(func() error {
			logger.Info("Metrics server starting", "address", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	model := ui.New(gctx, ui.Deps{
		Navigator: nav,
		Store:     store,
		Checkout:  gateway.NewCheckout(&gateway.Simulated{}, store, logger),
		Events:    inbox.Events(),
		Sharer:    share.ClipboardSharer{Logger: logger},
		Links:     share.LinkBuilder{Base: cfg.ReferralBaseURL},
		UserID:    cfg.UserID,
		Servers:   storage.DefaultServers(),
		Seed:      uint64(time.Now().UnixNano()),
		Logger:    logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run ui: %w", err)
		}
		logger.Info("Shell closed")
		return nil
	})

	return g.Wait()
}

func openCatalog(dbPath string) (storage.CatalogSource, error) {
	if dbPath == "" {
		return storage.DefaultCatalog(), nil
	}
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return store, nil
}

func catalogName(dbPath string) string {
	if dbPath == "" {
		return "built-in"
	}
	return dbPath
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newMetricsServer(addr string, recorder *metrics.Recorder, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
