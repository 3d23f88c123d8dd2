// Package dto provides data transfer objects for the analytics endpoints.
package dto

import (
	"time"

	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// EndpointUsageResponse represents the traffic of one endpoint.
type EndpointUsageResponse struct {
	Endpoint              string  `json:"endpoint"`
	RequestCount          int64   `json:"request_count"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
}

// OverviewResponse summarizes one day of traffic.
type OverviewResponse struct {
	Date                  string                  `json:"date"`
	TotalRequests         int64                   `json:"total_requests"`
	AverageResponseTimeMs float64                 `json:"average_response_time_ms"`
	UniqueClients         int                     `json:"unique_clients"`
	TopEndpoints          []EndpointUsageResponse `json:"top_endpoints"`
}

// MapOverviewToResponse converts a domain overview to an API response.
func MapOverviewToResponse(overview *ledgerDomain.Overview) OverviewResponse {
	top := make([]EndpointUsageResponse, 0, len(overview.TopEndpoints))
	for _, e := range overview.TopEndpoints {
		top = append(top, EndpointUsageResponse{
			Endpoint:              e.Endpoint,
			RequestCount:          e.RequestCount,
			AverageResponseTimeMs: e.AverageResponseTimeMs,
		})
	}

	return OverviewResponse{
		Date:                  overview.Date.Format(customValidation.DateLayout),
		TotalRequests:         overview.TotalRequests,
		AverageResponseTimeMs: overview.AverageResponseTimeMs,
		UniqueClients:         overview.UniqueClients,
		TopEndpoints:          top,
	}
}

// AuditEntryResponse represents an audit entry in API responses.
type AuditEntryResponse struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	Endpoint       string    `json:"endpoint"`
	Method         string    `json:"method"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	UserAgent      string    `json:"user_agent"`
	IPAddress      string    `json:"ip_address"`
	Timestamp      time.Time `json:"timestamp"`
}

// ListAuditEntriesResponse represents a list of audit entries, newest first.
type ListAuditEntriesResponse struct {
	Data []AuditEntryResponse `json:"data"`
}

// MapAuditEntriesToListResponse converts domain audit entries to a list response.
func MapAuditEntriesToListResponse(entries []*ledgerDomain.AuditEntry) ListAuditEntriesResponse {
	data := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, AuditEntryResponse{
			ID:             entry.ID.String(),
			ClientID:       entry.ClientID,
			Endpoint:       entry.Endpoint,
			Method:         entry.Method,
			StatusCode:     entry.StatusCode,
			ResponseTimeMs: entry.ResponseTimeMs,
			UserAgent:      entry.UserAgent,
			IPAddress:      entry.IPAddress,
			Timestamp:      entry.Timestamp,
		})
	}
	return ListAuditEntriesResponse{Data: data}
}
