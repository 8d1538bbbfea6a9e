package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/job-marketplace/internal/api/http"
	"github.com/spec-kit/job-marketplace/internal/api/http/handlers"
	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/config"
	"github.com/spec-kit/job-marketplace/internal/events"
	"github.com/spec-kit/job-marketplace/internal/observability"
	"github.com/spec-kit/job-marketplace/internal/persistence"
	"github.com/spec-kit/job-marketplace/internal/policy"
	"github.com/spec-kit/job-marketplace/internal/repository"
	"github.com/spec-kit/job-marketplace/internal/revocation"
	"github.com/spec-kit/job-marketplace/internal/service"
	"github.com/spec-kit/job-marketplace/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	codec, err := auth.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL())
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	revokedRepo := repository.NewRevokedTokenRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	observability.RegisterAuditLog(dispatcher, logger)
	metrics := observability.NewMetrics()

	revoked, err := revocation.NewStore(cfg.Auth.RevocationBackend, redis.Client, revokedRepo)
	if err != nil {
		logger.Fatal("failed to build revocation store", zap.Error(err))
	}
	// The pruner only has rows to sweep when revocations land in postgres.
	if cfg.Auth.RevocationBackend == revocation.BackendPostgres {
		worker.StartRevocationPruner(ctx, revokedRepo, cfg.Auth.PruneInterval(), logger)
	}

	tokenService := service.NewTokenService(codec, userRepo, revoked, dispatcher)
	accountService := service.NewAccountService(userRepo, cfg.Auth.BcryptCost, dispatcher)

	gatekeeper := auth.NewGatekeeper(tokenService, policy.IdentityTable(), logger, metrics, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterIdentityRoutes(app, httptransport.IdentityRouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:       handlers.NewAuthHandler(tokenService, accountService),
		Metrics:    handlers.NewMetricsHandler(metrics),
		Gatekeeper: gatekeeper,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
