package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"signal_go/internal/domain"
	"signal_go/internal/infra"
	"signal_go/internal/infra/storage"
	"signal_go/internal/infra/stream"
	"signal_go/internal/infra/webhook"
	"signal_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.ConfigStore
	Storage *storage.Storage
	Metrics *infra.Metrics
	Hub     *stream.Hub
	Service *service.SignalService
	Handler *webhook.Handler

	stopWatch func()
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB, services)
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = infra.NewConfigStore(configPath, cfg)

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg))
	slog.Info("🚀 Bootstrapping signal webhook...",
		slog.Bool("auth", cfg.Webhook.Secret != ""),
		slog.Bool("store_raw", cfg.Webhook.StoreRaw),
		slog.Bool("forward", cfg.Webhook.ForwardURL != ""),
	)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Wire services
	b.Metrics = infra.NewMetrics()
	var broadcaster domain.SignalBroadcaster
	if cfg.Stream.Enabled {
		b.Hub = stream.NewHub(b.Metrics, originChecker(cfg.Server.CORSOrigins))
		broadcaster = b.Hub
	}
	b.Service = service.NewSignalService(store, infra.NewForwarder(), broadcaster, b.Metrics)
	b.Handler = webhook.NewHandler(b.settings, b.Service, b.Metrics)

	// 5. Hot reload (optional, file may not exist)
	if stop, err := b.Config.Watch(); err != nil {
		slog.Info("Config hot-reload disabled", slog.Any("error", err))
	} else {
		b.stopWatch = stop
		slog.Info("✅ Config hot-reload enabled", slog.String("path", b.Config.Path()))
	}

	return nil
}

// settings reads the live configuration on every request
func (b *Bootstrap) settings() webhook.Settings {
	return webhook.SettingsFromConfig(b.Config.Current())
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (b *Bootstrap) Run(ctx context.Context) error {
	cfg := b.Config.Current()
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      NewRouter(b, cfg.Server.CORSOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("✅ HTTP server listening", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("👋 Shutting down gracefully...")
	shutCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// Close releases resources acquired by Initialize
func (b *Bootstrap) Close() {
	if b.stopWatch != nil {
		b.stopWatch()
	}
	if b.Storage != nil {
		if err := b.Storage.Close(); err != nil {
			slog.Warn("Closing database failed", slog.Any("error", err))
		}
	}
}
