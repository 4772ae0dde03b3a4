// Package server wires configuration, storage, services and both transports
// (gRPC and HTTP) into one runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/dmitrijs2005/gophblog/internal/cache"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/httpapi"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophblog/internal/server/grpc"
)

// postsCacheName labels the post list cache in metrics.
const postsCacheName = "posts"

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	registry   *prometheus.Registry
	grpcServer runner
	httpServer runner
}

// NewApp connects to PostgreSQL, applies migrations and builds the servers.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logLevel(cfg.LogLevel))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, cfg, db, repomanager.NewPostgresRepositoryManager(), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	postsCache, err := cache.New[int64, []models.Post](cfg.PostsCacheTTL,
		cache.WithMaxEntries[[]models.Post](cfg.PostsCacheMaxEntries),
		cache.WithCopy[[]models.Post](slices.Clone[[]models.Post]),
		cache.WithMetrics[[]models.Post](cache.NewMetrics(registry), postsCacheName),
	)
	if err != nil {
		return nil, fmt.Errorf("posts cache: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.SecretKey), cfg.SigningAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	us := services.NewUserService(db, rm, auth.NewPasswordHasher(cfg.BcryptCost), tokens, cfg.AccessTokenValidityDuration, logger)
	ps := services.NewPostService(db, rm, postsCache, logger)
	resolver := auth.NewResolver(tokens, rm.Users(db))

	gin.SetMode(cfg.GinMode)
	router := httpapi.NewRouter(httpapi.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:       registry,
	}, logger, us, ps, resolver)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		registry:   registry,
		grpcServer: gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, ps, resolver),
		httpServer: httpapi.NewHTTPServer(cfg.EndpointAddrHTTP, logger, router),
	}, nil
}

// Run serves both transports until ctx is cancelled, a termination signal
// arrives or one of the servers fails; then it stops the other and closes
// the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpcServer.Run(gctx) })
	g.Go(func() error { return app.httpServer.Run(gctx) })

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close failed", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}

func logLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
