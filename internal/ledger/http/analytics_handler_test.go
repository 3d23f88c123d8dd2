package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
	usecaseMocks "github.com/allisson/gatekeeper/internal/ledger/usecase/mocks"
)

func newAnalyticsRouter(ledger *usecaseMocks.MockLedgerUseCase, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(ledger, 5, func() time.Time { return now }, discardLogger())

	router := gin.New()
	router.GET("/v1/analytics/overview", handler.OverviewHandler)
	router.GET("/v1/analytics/logs", handler.LogsHandler)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAnalyticsHandler_OverviewHandler(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

	t.Run("Success_DefaultsToToday", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}
		overview := &ledgerDomain.Overview{
			Date:                  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			TotalRequests:         3,
			AverageResponseTimeMs: 20,
			UniqueClients:         1,
			TopEndpoints: []ledgerDomain.EndpointUsage{
				{Endpoint: "/a", RequestCount: 2, AverageResponseTimeMs: 15},
			},
		}
		ledger.On("QueryOverview", mock.Anything, now, 5).Return(overview, nil).Once()

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/overview")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"date": "2026-03-02",
			"total_requests": 3,
			"average_response_time_ms": 20,
			"unique_clients": 1,
			"top_endpoints": [{"endpoint": "/a", "request_count": 2, "average_response_time_ms": 15}]
		}`, w.Body.String())
		ledger.AssertExpectations(t)
	})

	t.Run("Success_ExplicitDateAndTop", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}
		date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
		ledger.On("QueryOverview", mock.Anything, date, 2).
			Return(&ledgerDomain.Overview{Date: date}, nil).
			Once()

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/overview?date=2026-02-28&top=2")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"date":"2026-02-28"`)
		ledger.AssertExpectations(t)
	})

	t.Run("Error_InvalidDate", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/overview?date=02-28-2026")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "date")
		ledger.AssertNotCalled(t, "QueryOverview", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidTop", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/overview?top=0")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "top")
	})

	t.Run("Error_Storage", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}
		ledger.On("QueryOverview", mock.Anything, now, 5).
			Return(nil, apperrors.WrapStorage(errors.New("conn refused"), "failed to list usage")).
			Once()

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/overview")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		ledger.AssertExpectations(t)
	})
}

func TestAnalyticsHandler_LogsHandler(t *testing.T) {
	now := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

	t.Run("Success_DefaultLimit", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}
		id := uuid.Must(uuid.NewV7())
		ledger.On("QueryLogs", mock.Anything, 50).Return([]*ledgerDomain.AuditEntry{{
			ID:         id,
			ClientID:   "ip:192.0.2.1",
			Endpoint:   "/v1/me",
			Method:     http.MethodGet,
			StatusCode: http.StatusOK,
			Timestamp:  now,
		}}, nil).Once()

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/logs")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
		assert.Contains(t, w.Body.String(), `"client_id":"ip:192.0.2.1"`)
		ledger.AssertExpectations(t)
	})

	t.Run("Success_ExplicitLimit", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}
		ledger.On("QueryLogs", mock.Anything, 10).Return([]*ledgerDomain.AuditEntry{}, nil).Once()

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/logs?limit=10")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
		ledger.AssertExpectations(t)
	})

	t.Run("Error_LimitTooLarge", func(t *testing.T) {
		ledger := &usecaseMocks.MockLedgerUseCase{}

		w := get(newAnalyticsRouter(ledger, now), "/v1/analytics/logs?limit=1001")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		ledger.AssertNotCalled(t, "QueryLogs", mock.Anything, mock.Anything)
	})
}
