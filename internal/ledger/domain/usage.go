package domain

import (
	"cmp"
	"slices"
	"time"
)

// UsageAggregate is the running request count and latency total of one client on one
// endpoint for one UTC day. It is only ever incremented.
type UsageAggregate struct {
	Date                time.Time
	ClientID            string
	Endpoint            string
	RequestCount        int64
	TotalResponseTimeMs int64
}

// AverageResponseTimeMs returns the mean latency, or 0 when no request was counted.
func (u *UsageAggregate) AverageResponseTimeMs() float64 {
	return average(u.TotalResponseTimeMs, u.RequestCount)
}

// EndpointUsage is the usage of one endpoint summed over all clients.
type EndpointUsage struct {
	Endpoint              string
	RequestCount          int64
	AverageResponseTimeMs float64
}

// Overview summarizes one day of traffic.
type Overview struct {
	Date                  time.Time
	TotalRequests         int64
	AverageResponseTimeMs float64
	UniqueClients         int
	TopEndpoints          []EndpointUsage
}

// BuildOverview folds the aggregates of a day into an Overview. TopEndpoints holds at most
// topN entries ordered by request count descending, then endpoint ascending. topN <= 0
// returns every endpoint.
func BuildOverview(date time.Time, aggregates []*UsageAggregate, topN int) *Overview {
	overview := &Overview{Date: UsageDate(date)}

	type endpointTotals struct {
		count   int64
		totalMs int64
	}
	endpoints := make(map[string]*endpointTotals)
	clients := make(map[string]struct{})
	var totalMs int64

	for _, agg := range aggregates {
		overview.TotalRequests += agg.RequestCount
		totalMs += agg.TotalResponseTimeMs
		clients[agg.ClientID] = struct{}{}

		totals, ok := endpoints[agg.Endpoint]
		if !ok {
			totals = &endpointTotals{}
			endpoints[agg.Endpoint] = totals
		}
		totals.count += agg.RequestCount
		totals.totalMs += agg.TotalResponseTimeMs
	}

	overview.AverageResponseTimeMs = average(totalMs, overview.TotalRequests)
	overview.UniqueClients = len(clients)

	top := make([]EndpointUsage, 0, len(endpoints))
	for endpoint, totals := range endpoints {
		top = append(top, EndpointUsage{
			Endpoint:              endpoint,
			RequestCount:          totals.count,
			AverageResponseTimeMs: average(totals.totalMs, totals.count),
		})
	}
	slices.SortFunc(top, func(a, b EndpointUsage) int {
		if c := cmp.Compare(b.RequestCount, a.RequestCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Endpoint, b.Endpoint)
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	overview.TopEndpoints = top

	return overview
}

func average(total, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
