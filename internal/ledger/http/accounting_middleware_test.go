package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authService "github.com/allisson/gatekeeper/internal/auth/service"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
	ledgerService "github.com/allisson/gatekeeper/internal/ledger/service"
	usecaseMocks "github.com/allisson/gatekeeper/internal/ledger/usecase/mocks"
)

func newAccountedRouter(limiter ledgerService.RateLimiter, ledger *usecaseMocks.MockLedgerUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AccountingMiddleware(limiter, newStubVerifier(), ledger, discardLogger()))
	router.GET("/v1/secrets/*name", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func newLimiter(t *testing.T, limit int64) *ledgerService.FixedWindowLimiter {
	t.Helper()
	limiter, err := ledgerService.NewFixedWindowLimiter(ledgerService.NewMemoryCounterStore(nil), limit, time.Hour)
	require.NoError(t, err)
	return limiter
}

func serveWithHeaders(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.10:4321"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestClientIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	identity := func(headers map[string]string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "192.0.2.10:4321"
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return ClientIdentity(c, newStubVerifier())
	}

	t.Run("StaticKey", func(t *testing.T) {
		id := identity(map[string]string{"X-API-Key": "admin-key", "Authorization": "Bearer tok"})
		assert.Equal(t, "key:"+authService.HashCredential("admin-key")[:16], id)
		assert.NotContains(t, id, "admin-key")
	})

	t.Run("Token", func(t *testing.T) {
		id := identity(map[string]string{"Authorization": "Bearer tok"})
		assert.Equal(t, "token:"+authService.HashCredential("tok")[:16], id)
	})

	t.Run("InvalidStaticKeyFallsBackToToken", func(t *testing.T) {
		id := identity(map[string]string{"X-API-Key": "garbage", "Authorization": "Bearer tok"})
		assert.Equal(t, "token:"+authService.HashCredential("tok")[:16], id)
	})

	t.Run("InvalidCredentialsUseClientIP", func(t *testing.T) {
		assert.Equal(t, "ip:192.0.2.10", identity(map[string]string{"X-API-Key": "garbage"}))
		assert.Equal(t, "ip:192.0.2.10", identity(map[string]string{"Authorization": "Bearer forged"}))
	})

	t.Run("ClientIP", func(t *testing.T) {
		assert.Equal(t, "ip:192.0.2.10", identity(nil))
	})
}

func TestAccountingMiddleware_BogusCredentialsShareClientIPWindow(t *testing.T) {
	ledger := &usecaseMocks.MockLedgerUseCase{}
	var recorded []*ledgerDomain.AuditEntry
	ledger.On("Record", mock.Anything, mock.AnythingOfType("*domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			recorded = append(recorded, args.Get(1).(*ledgerDomain.AuditEntry))
		}).
		Return(nil)

	store := ledgerService.NewMemoryCounterStore(nil)
	limiter, err := ledgerService.NewFixedWindowLimiter(store, 2, time.Hour)
	require.NoError(t, err)
	router := newAccountedRouter(limiter, ledger)

	rejected := 0
	for i := 0; i < 10; i++ {
		w := serveWithHeaders(router, "/v1/secrets/a", map[string]string{
			"X-API-Key": "garbage-" + strconv.Itoa(i),
		})
		if w.Code == http.StatusTooManyRequests {
			rejected++
		}
	}

	assert.Equal(t, 8, rejected)
	require.Len(t, recorded, 10)
	for _, entry := range recorded {
		assert.Equal(t, "ip:192.0.2.10", entry.ClientID)
	}
}

func TestAccountingMiddleware_FiveOfSeven(t *testing.T) {
	ledger := &usecaseMocks.MockLedgerUseCase{}
	var recorded []*ledgerDomain.AuditEntry
	ledger.On("Record", mock.Anything, mock.AnythingOfType("*domain.AuditEntry")).
		Run(func(args mock.Arguments) {
			recorded = append(recorded, args.Get(1).(*ledgerDomain.AuditEntry))
		}).
		Return(nil)

	router := newAccountedRouter(newLimiter(t, 5), ledger)

	var statuses []int
	for i := 0; i < 7; i++ {
		w := serveWithHeaders(router, "/v1/secrets/billing/stripe", nil)
		statuses = append(statuses, w.Code)

		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		if w.Code == http.StatusTooManyRequests {
			retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, retryAfter, 1)
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
		}
	}

	assert.Equal(t, []int{200, 200, 200, 200, 200, 429, 429}, statuses)

	require.Len(t, recorded, 7)
	for i, entry := range recorded {
		assert.Equal(t, "ip:192.0.2.10", entry.ClientID)
		assert.Equal(t, "/v1/secrets/*name", entry.Endpoint)
		assert.Equal(t, http.MethodGet, entry.Method)
		assert.Equal(t, statuses[i], entry.StatusCode)
		assert.False(t, entry.Timestamp.IsZero())
	}
}

func TestAccountingMiddleware_ClientsAreIndependent(t *testing.T) {
	ledger := &usecaseMocks.MockLedgerUseCase{}
	ledger.On("Record", mock.Anything, mock.Anything).Return(nil)
	router := newAccountedRouter(newLimiter(t, 1), ledger)

	w := serveWithHeaders(router, "/v1/secrets/a", map[string]string{"Authorization": "Bearer one"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = serveWithHeaders(router, "/v1/secrets/a", map[string]string{"Authorization": "Bearer one"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = serveWithHeaders(router, "/v1/secrets/a", map[string]string{"Authorization": "Bearer two"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccountingMiddleware_UnmatchedRouteUsesPath(t *testing.T) {
	ledger := &usecaseMocks.MockLedgerUseCase{}
	ledger.On("Record", mock.Anything, mock.MatchedBy(func(entry *ledgerDomain.AuditEntry) bool {
		return entry.Endpoint == "/nope" && entry.StatusCode == http.StatusNotFound
	})).Return(nil).Once()

	w := serveWithHeaders(newAccountedRouter(newLimiter(t, 5), ledger), "/nope", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	ledger.AssertExpectations(t)
}

type failingLimiter struct{}

func (failingLimiter) Admit(context.Context, string, time.Time) (*ledgerDomain.Decision, error) {
	return nil, errors.New("redis: connection refused")
}

func TestAccountingMiddleware_LimiterFailureLetsRequestThrough(t *testing.T) {
	ledger := &usecaseMocks.MockLedgerUseCase{}
	ledger.On("Record", mock.Anything, mock.Anything).Return(nil).Once()

	w := serveWithHeaders(newAccountedRouter(failingLimiter{}, ledger), "/v1/secrets/a", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	ledger.AssertExpectations(t)
}

func TestAccountingMiddleware_RecordFailureKeepsResponse(t *testing.T) {
	ledger := &usecaseMocks.MockLedgerUseCase{}
	ledger.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	w := serveWithHeaders(newAccountedRouter(newLimiter(t, 5), ledger), "/v1/secrets/a", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "db down"))
	ledger.AssertExpectations(t)
}
