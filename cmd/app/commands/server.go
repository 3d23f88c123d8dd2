package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/gatekeeper/internal/app"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	"github.com/allisson/gatekeeper/internal/config"
	ledgerService "github.com/allisson/gatekeeper/internal/ledger/service"
)

// sweepInterval is how often expired tokens and rate limit windows are dropped from memory.
const sweepInterval = time.Minute

// RunServer starts the HTTP server with graceful shutdown support.
// Blocks until receiving SIGINT/SIGTERM or until one of the servers fails. On shutdown,
// both servers are stopped within the DBConnMaxLifetime timeout.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	gateway, err := container.GatewayUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize gateway: %w", err)
	}

	counterStore, err := container.CounterStore()
	if err != nil {
		return fmt.Errorf("failed to initialize rate limit store: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	if memoryStore, ok := counterStore.(*ledgerService.MemoryCounterStore); ok {
		g.Go(func() error {
			return memoryStore.Run(gctx, sweepInterval)
		})
	}

	g.Go(func() error {
		return purgeExpiredTokens(gctx, gateway, sweepInterval, logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()

		var shutdownErrors []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}

// purgeExpiredTokens drops expired tokens from the registry every interval until ctx is done.
func purgeExpiredTokens(
	ctx context.Context,
	gateway authUseCase.GatewayUseCase,
	interval time.Duration,
	logger *slog.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := gateway.PurgeExpired(ctx); removed > 0 {
				logger.Debug("purged expired tokens", slog.Int("count", removed))
			}
		}
	}
}
