package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/godilite/feedback-insights/internal/charts"
	"github.com/godilite/feedback-insights/internal/config"
	handler "github.com/godilite/feedback-insights/internal/grpc"
	"github.com/godilite/feedback-insights/internal/insights"
	"github.com/godilite/feedback-insights/internal/repository"
	"github.com/godilite/feedback-insights/internal/service"
	"github.com/godilite/feedback-insights/pkg/cache"
	dbbuilder "github.com/godilite/feedback-insights/pkg/database"
	grpcsrv "github.com/godilite/feedback-insights/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      handler.Cacher
	grpcServer *grpcsrv.Server
}

// Store is an open, migrated feedback database.
type Store struct {
	DB         *sql.DB
	Repository *repository.FeedbackRepository
}

// OpenStore opens the configured database and creates the feedback schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithInitStatements("PRAGMA foreign_keys = ON"),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	repo := repository.NewFeedbackRepository(dbPool)
	if err := repo.Migrate(ctx); err != nil {
		_ = dbPool.Close()
		return nil, err
	}
	return &Store{DB: dbPool, Repository: repo}, nil
}

// NewDashboard builds the dashboard service over store using the configured
// insights thresholds. A nil renderer logs chart summaries.
func NewDashboard(cfg *config.Config, store *Store, renderer charts.Renderer, logger *zap.Logger) (*service.DashboardService, error) {
	insightsCfg, err := insights.LoadConfig(cfg.InsightsConfigPath)
	if err != nil {
		return nil, err
	}
	return service.NewDashboardService(store.Repository, renderer, insightsCfg, logger), nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (handler.Cacher, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Response cache disabled")
		return handler.NopCache{}, nil
	}
	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
		cache.WithPrefix(cfg.RedisPrefix),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	return cacheClient, nil
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dashboard, err := NewDashboard(cfg, store, nil, logger)
	if err != nil {
		_ = store.DB.Close()
		return nil, err
	}

	cacheClient, err := newCache(ctx, cfg, logger)
	if err != nil {
		_ = store.DB.Close()
		return nil, err
	}

	grpcHandlers := handler.NewGRPCHandlers(dashboard, cacheClient, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled),
		grpcsrv.WithMaxRecvMsgSize(cfg.GRPCMaxRecvMB<<20),
	)
	if err != nil {
		_ = cacheClient.Close()
		_ = store.DB.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterFeedbackInsightsServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		dbPool:     store.DB,
		cache:      cacheClient,
		grpcServer: grpcServer,
	}, nil
}

// Addr returns the gRPC listening address.
func (a *App) Addr() net.Addr {
	return a.grpcServer.Addr()
}

// Run starts the application and blocks until ctx is done or a shutdown
// signal is received.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("shutdown completed but deadline exceeded", zap.Error(err))
		errs = append(errs, err)
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
		errs = append(errs, err)
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		a.logger.Info("graceful shutdown completed successfully")
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}
