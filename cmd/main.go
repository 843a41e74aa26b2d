package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/okian/catalog/internal/adapters/http/api"
	"github.com/okian/catalog/internal/adapters/http/site"
	"github.com/okian/catalog/internal/adapters/http/swagger"
	app "github.com/okian/catalog/internal/app"
	"github.com/okian/catalog/internal/config"
	"github.com/okian/catalog/internal/domain/model"
	"github.com/okian/catalog/internal/smoketest"
	"github.com/okian/catalog/pkg/logger"
	"github.com/okian/catalog/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	configureMetrics(cfg)

	svc := app.New(app.WithLogger(log))
	if err := svc.Start(ctx); err != nil {
		log.Fatal(ctx, "failed to start service", logger.Error(err))
	}
	defer svc.Stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatal(ctx, "failed to listen", logger.String("addr", cfg.Addr), logger.Error(err))
	}

	if err := run(ctx, cfg, ln, svc, log); err != nil {
		log.Error(ctx, "server stopped with error", logger.Error(err))
		return
	}
	log.Info(ctx, "server stopped")
}

// configureMetrics applies the metric naming and buckets from cfg. It runs
// before anything records metrics.
func configureMetrics(cfg *config.Config) {
	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithHistogramBuckets(cfg.MetricsDurationBucketsMS),
	)
}

// newHandler builds the full HTTP surface.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) (http.Handler, error) {
	resources := []api.Resource{
		api.NewResourceHandler[model.Team](svc.TeamKind(), svc.Teams(), log),
		api.NewResourceHandler[model.LaserDisc](svc.LaserDiscKind(), svc.LaserDiscs(), log),
	}
	apiServer := api.NewServer(svc, resources,
		api.WithLogger(log.Named("http")),
		api.WithCORSAllowedOrigins(cfg.CORSAllowedOrigins),
		api.WithRateLimit(cfg.RateLimitPerMinute),
		api.WithTrustProxyHeaders(cfg.TrustProxyHeaders),
	)

	r := apiServer.Router(ctx)
	if err := swagger.Register(ctx, r); err != nil {
		return nil, fmt.Errorf("register api docs: %w", err)
	}
	if err := site.Register(ctx, r); err != nil {
		return nil, fmt.Errorf("register site: %w", err)
	}
	return r, nil
}

// run serves on ln until ctx is cancelled, then shuts down gracefully. The
// background goroutines it starts have returned when it does.
func run(ctx context.Context, cfg *config.Config, ln net.Listener, svc *app.Service, log logger.Logger) error {
	handler, err := newHandler(ctx, cfg, svc, log)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		startSystemMetricsUpdater(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	baseURL := smoketest.BaseURLFromAddr(ln.Addr().String())
	log.Info(ctx, "Servidor en "+baseURL, logger.String("addr", ln.Addr().String()))

	if cfg.SelfTest {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runSelfTest(ctx, cfg, baseURL, log)
		}()
	}

	select {
	case err = <-serveErr:
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}

	wg.Wait()
	return err
}

// runSelfTest runs the smoke test once against this process after the
// configured delay. Failures are logged only.
func runSelfTest(ctx context.Context, cfg *config.Config, baseURL string, log logger.Logger) {
	timer := time.NewTimer(time.Duration(cfg.SelfTestDelayMS) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	_, _ = smoketest.Run(ctx, &smoketest.Config{
		BaseURL:  baseURL,
		Resource: cfg.SelfTestResource,
		Timeout:  smoketest.DefaultTimeout,
		Logger:   log,
	})
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	updateSystemMetrics()

	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
