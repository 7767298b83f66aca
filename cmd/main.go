package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/okian/unirank/internal/adapters/http/api"
	"github.com/okian/unirank/internal/adapters/http/swagger"
	"github.com/okian/unirank/internal/adapters/repository"
	app "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/config"
	"github.com/okian/unirank/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	storeOpenTimeout  = 30 * time.Second
)

func main() {
	// A missing .env file is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to load .env: " + err.Error() + "\n")
		return
	}

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	openCtx, cancelOpen := context.WithTimeout(ctx, storeOpenTimeout)
	store, closeStore, err := openStore(openCtx, cfg, loggerInstance.Named("store"))
	cancelOpen()
	if err != nil {
		loggerInstance.Error(ctx, "failed to open store", logger.String("store", cfg.Store), logger.Error(err))
		return
	}
	defer func() {
		if err := closeStore(); err != nil {
			loggerInstance.Warn(ctx, "failed to close store", logger.Error(err))
		}
	}()

	svc := app.New(
		app.WithStore(store),
		app.WithLogger(loggerInstance.Named("service")),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, loggerInstance.Named("http")),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("route_prefix", api.NormalizePrefix(cfg.RoutePrefix)),
			logger.String("store", cfg.Store),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newHandler builds the router: API routes and middleware first, then docs.
func newHandler(ctx context.Context, cfg *config.Config, svc api.Dependencies, l logger.Logger) http.Handler {
	root := chi.NewRouter()

	apiServer := api.NewServer(svc,
		api.WithServiceName(cfg.ServiceName),
		api.WithCORSOrigins(cfg.CORSOrigins...),
		api.WithRequestLogger(l),
	)
	apiServer.Register(ctx, root, cfg.RoutePrefix)

	swagger.Register(ctx, root, api.NormalizePrefix(cfg.RoutePrefix))
	return root
}

// openStore opens the configured backend and returns it with its closer.
func openStore(ctx context.Context, cfg *config.Config, l logger.Logger) (repository.Store, func() error, error) {
	switch cfg.Store {
	case config.StorePostgres:
		return openPostgres(ctx, cfg, l)
	default:
		return openMemory(ctx, cfg, l)
	}
}
