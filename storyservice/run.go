package storyservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Acurioustractor/palm-island-repository-sub003/internal/api"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/cache"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/config"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/factory"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/health"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/logger"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/media"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/store"
	"github.com/Acurioustractor/palm-island-repository-sub003/internal/storybuilder"
)

// dependencies are the long-lived components the service wires together.
// cache and objects are nil when their backends are not configured.
type dependencies struct {
	store    store.Store
	closeDB  func() error
	cache    *cache.RedisCache
	uploader *media.Service
	objects  *media.MinioStore
}

func (d *dependencies) close() {
	if d.cache != nil {
		_ = d.cache.Close()
	}
	if d.closeDB != nil {
		_ = d.closeDB()
	}
}

// Run starts the story service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("story-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log = logger.WithLevel(log, cfg.LogLevel)

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("cache_enabled", cfg.RedisURL != "").
		Bool("media_enabled", cfg.MediaEndpoint != "").
		Msg("Story service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	// Start health checkers before the router so /api/health reflects them
	svcHealth := startHealthCheckers(ctx, cfg, log, deps)

	router := buildRouter(deps, cfg, log, svcHealth.IsHealthy)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Strs("down", svcHealth.Snapshot().Down).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	st, closeDB, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}
	deps.store, deps.closeDB = st, closeDB

	c, err := factory.NewCache(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Published story cache unavailable")
		deps.close()
		return nil, err
	}
	deps.cache = c

	uploader, objects, err := factory.NewMediaUploader(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Media store unavailable")
		deps.close()
		return nil, err
	}
	deps.uploader, deps.objects = uploader, objects
	return deps, nil
}

func newEngine(deps *dependencies, cfg *config.Config, log zerolog.Logger) *storybuilder.Engine {
	opts := []storybuilder.Option{storybuilder.WithLoadConcurrency(cfg.LoadConcurrency)}
	if deps.cache != nil {
		opts = append(opts, storybuilder.WithCache(deps.cache))
	}
	return storybuilder.New(deps.store, log, opts...)
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(deps *dependencies, cfg *config.Config, log zerolog.Logger, isHealthy func() bool) http.Handler {
	d := api.Deps{
		Engine:         newEngine(deps, cfg, log),
		MaxUploadBytes: cfg.MediaMaxUploadBytes,
		IsHealthy:      isHealthy,
		Log:            log,
	}
	if deps.uploader != nil {
		d.Uploader = deps.uploader
	}
	return api.NewRouter(d)
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.Service {
	var checkers []health.HealthChecker
	checkTimeout := cfg.HealthCheckTimeout()
	interval := cfg.HealthInterval()

	storeChecker := store.NewStoreHealthChecker(deps.store, log, checkTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	if deps.cache != nil {
		cacheChecker := health.NewPingChecker("cache", deps.cache, log, checkTimeout)
		go cacheChecker.Start(ctx, interval)
		checkers = append(checkers, cacheChecker)
	}
	if deps.objects != nil {
		mediaChecker := health.NewPingChecker("media", deps.objects, log, checkTimeout)
		go mediaChecker.Start(ctx, interval)
		checkers = append(checkers, mediaChecker)
	}

	svcHealth := health.NewService(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth interface{ IsHealthy() bool }) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
