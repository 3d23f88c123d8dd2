package app

import (
	"fmt"

	"github.com/allisson/gatekeeper/internal/config"
	ledgerHTTP "github.com/allisson/gatekeeper/internal/ledger/http"
	ledgerRepository "github.com/allisson/gatekeeper/internal/ledger/repository"
	ledgerService "github.com/allisson/gatekeeper/internal/ledger/service"
	ledgerUseCase "github.com/allisson/gatekeeper/internal/ledger/usecase"
)

const redisKeyPrefix = "gatekeeper:ratelimit:"

// AuditEntryRepository returns the audit entry repository based on database driver.
func (c *Container) AuditEntryRepository() (ledgerUseCase.AuditEntryRepository, error) {
	var err error
	c.auditEntryRepositoryInit.Do(func() {
		c.auditEntryRepository, err = c.initAuditEntryRepository()
		if err != nil {
			c.initErrors["auditEntryRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditEntryRepository"]; exists {
		return nil, storedErr
	}
	return c.auditEntryRepository, nil
}

// UsageRepository returns the usage aggregate repository based on database driver.
func (c *Container) UsageRepository() (ledgerUseCase.UsageAggregateRepository, error) {
	var err error
	c.usageRepositoryInit.Do(func() {
		c.usageRepository, err = c.initUsageRepository()
		if err != nil {
			c.initErrors["usageRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["usageRepository"]; exists {
		return nil, storedErr
	}
	return c.usageRepository, nil
}

// LedgerUseCase returns the ledger use case.
func (c *Container) LedgerUseCase() (ledgerUseCase.LedgerUseCase, error) {
	var err error
	c.ledgerUseCaseInit.Do(func() {
		c.ledgerUseCase, err = c.initLedgerUseCase()
		if err != nil {
			c.initErrors["ledgerUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ledgerUseCase"]; exists {
		return nil, storedErr
	}
	return c.ledgerUseCase, nil
}

// CounterStore returns the window counter store selected by RATE_LIMIT_BACKEND.
func (c *Container) CounterStore() (ledgerService.CounterStore, error) {
	var err error
	c.counterStoreInit.Do(func() {
		c.counterStore, err = c.initCounterStore()
		if err != nil {
			c.initErrors["counterStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["counterStore"]; exists {
		return nil, storedErr
	}
	return c.counterStore, nil
}

// RateLimiter returns the fixed-window limiter applied to every API route.
func (c *Container) RateLimiter() (ledgerService.RateLimiter, error) {
	var err error
	c.rateLimiterInit.Do(func() {
		c.rateLimiter, err = c.initRateLimiter()
		if err != nil {
			c.initErrors["rateLimiter"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rateLimiter"]; exists {
		return nil, storedErr
	}
	return c.rateLimiter, nil
}

// AnalyticsHandler returns the HTTP handler for the analytics endpoints.
func (c *Container) AnalyticsHandler() (*ledgerHTTP.AnalyticsHandler, error) {
	var err error
	c.analyticsHandlerInit.Do(func() {
		c.analyticsHandler, err = c.initAnalyticsHandler()
		if err != nil {
			c.initErrors["analyticsHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["analyticsHandler"]; exists {
		return nil, storedErr
	}
	return c.analyticsHandler, nil
}

// initAuditEntryRepository creates the audit entry repository based on the database driver.
func (c *Container) initAuditEntryRepository() (ledgerUseCase.AuditEntryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit entry repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return ledgerRepository.NewPostgreSQLAuditEntryRepository(db), nil
	case "mysql":
		return ledgerRepository.NewMySQLAuditEntryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUsageRepository creates the usage aggregate repository based on the database driver.
func (c *Container) initUsageRepository() (ledgerUseCase.UsageAggregateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for usage repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return ledgerRepository.NewPostgreSQLUsageRepository(db), nil
	case "mysql":
		return ledgerRepository.NewMySQLUsageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initLedgerUseCase creates the ledger use case with all its dependencies.
func (c *Container) initLedgerUseCase() (ledgerUseCase.LedgerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for ledger use case: %w", err)
	}

	auditEntryRepository, err := c.AuditEntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit entry repository for ledger use case: %w", err)
	}

	usageRepository, err := c.UsageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage repository for ledger use case: %w", err)
	}

	baseUseCase := ledgerUseCase.NewLedgerUseCase(txManager, auditEntryRepository, usageRepository, nil)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for ledger use case: %w", err)
		}
		return ledgerUseCase.NewLedgerUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initCounterStore creates the process-local store or the shared redis store.
func (c *Container) initCounterStore() (ledgerService.CounterStore, error) {
	switch c.config.RateLimitBackend {
	case config.RateLimitBackendMemory, "":
		return ledgerService.NewMemoryCounterStore(nil), nil
	case config.RateLimitBackendRedis:
		client, err := c.RedisClient()
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for counter store: %w", err)
		}
		return ledgerService.NewRedisCounterStore(client, redisKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", c.config.RateLimitBackend)
	}
}

// initRateLimiter creates the fixed-window limiter over the counter store.
func (c *Container) initRateLimiter() (ledgerService.RateLimiter, error) {
	store, err := c.CounterStore()
	if err != nil {
		return nil, err
	}

	limiter, err := ledgerService.NewFixedWindowLimiter(
		store,
		int64(c.config.RateLimitRequests),
		c.config.RateLimitPeriod,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	return limiter, nil
}

// initAnalyticsHandler creates the analytics HTTP handler with all its dependencies.
func (c *Container) initAnalyticsHandler() (*ledgerHTTP.AnalyticsHandler, error) {
	ledger, err := c.LedgerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger use case for analytics handler: %w", err)
	}
	return ledgerHTTP.NewAnalyticsHandler(ledger, c.config.AnalyticsTopEndpoints, nil, c.Logger()), nil
}
