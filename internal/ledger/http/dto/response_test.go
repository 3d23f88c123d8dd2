package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
)

func TestMapOverviewToResponse(t *testing.T) {
	overview := &ledgerDomain.Overview{
		Date:                  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalRequests:         3,
		AverageResponseTimeMs: 20,
		UniqueClients:         1,
		TopEndpoints: []ledgerDomain.EndpointUsage{
			{Endpoint: "/a", RequestCount: 2, AverageResponseTimeMs: 15},
			{Endpoint: "/b", RequestCount: 1, AverageResponseTimeMs: 30},
		},
	}

	body, err := json.Marshal(MapOverviewToResponse(overview))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"date": "2026-03-01",
		"total_requests": 3,
		"average_response_time_ms": 20,
		"unique_clients": 1,
		"top_endpoints": [
			{"endpoint": "/a", "request_count": 2, "average_response_time_ms": 15},
			{"endpoint": "/b", "request_count": 1, "average_response_time_ms": 30}
		]
	}`, string(body))
}

func TestMapAuditEntriesToListResponse(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		body, err := json.Marshal(MapAuditEntriesToListResponse(nil))
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":[]}`, string(body))
	})

	t.Run("Entry", func(t *testing.T) {
		id := uuid.Must(uuid.NewV7())
		response := MapAuditEntriesToListResponse([]*ledgerDomain.AuditEntry{{
			ID:         id,
			ClientID:   "ip:10.0.0.1",
			Endpoint:   "/v1/me",
			Method:     "GET",
			StatusCode: 429,
		}})

		require.Len(t, response.Data, 1)
		assert.Equal(t, id.String(), response.Data[0].ID)
		assert.Equal(t, 429, response.Data[0].StatusCode)
	})
}
