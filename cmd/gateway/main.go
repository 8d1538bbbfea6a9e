package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/job-marketplace/internal/api/http"
	"github.com/spec-kit/job-marketplace/internal/auth"
	"github.com/spec-kit/job-marketplace/internal/config"
	"github.com/spec-kit/job-marketplace/internal/events"
	"github.com/spec-kit/job-marketplace/internal/gateway"
	"github.com/spec-kit/job-marketplace/internal/observability"
	"github.com/spec-kit/job-marketplace/internal/policy"
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

	dispatcher := events.NewInMemoryDispatcher()
	observability.RegisterAuditLog(dispatcher, logger)
	metrics := observability.NewMetrics()

	// The edge validates over the network; while the identity service is
	// down, every secured route rejects.
	validator := gateway.NewRemoteValidator(cfg.Gateway.IdentityURL, cfg.Gateway.ValidateTimeout())
	gatekeeper := auth.NewGatekeeper(validator, policy.GatewayTable(), logger, metrics, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Use(gatekeeper.Handle)

	gateway.RegisterProxy(app, gateway.Upstreams(cfg.Gateway))

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
