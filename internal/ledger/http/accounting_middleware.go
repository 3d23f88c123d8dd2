// Package http provides the HTTP adapter of the request accounting ledger: the
// accounting middleware and the analytics endpoints.
package http

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	"github.com/allisson/gatekeeper/internal/httputil"
	ledgerDomain "github.com/allisson/gatekeeper/internal/ledger/domain"
	ledgerService "github.com/allisson/gatekeeper/internal/ledger/service"
	ledgerUseCase "github.com/allisson/gatekeeper/internal/ledger/usecase"
)

const (
	// clientIDHashLength is the number of hex digits of the credential digest kept in a
	// client id.
	clientIDHashLength = 16

	recordTimeout = 5 * time.Second

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// CredentialVerifier checks a presented credential before it is trusted as a client identity.
type CredentialVerifier interface {
	VerifyStaticKey(ctx context.Context, presented string) error
	VerifyToken(ctx context.Context, token string, required ...authDomain.Permission) (*authDomain.Claims, error)
}

// ClientIdentity derives the rate limit and audit identity of a request from the presented
// credential: "key:<digest>" for a valid static key, "token:<digest>" for a valid token,
// otherwise "ip:<client ip>". Credentials that fail verification count against the client
// ip. Credentials are never stored in clear.
func ClientIdentity(c *gin.Context, verifier CredentialVerifier) string {
	ctx := c.Request.Context()
	if key := authHTTP.StaticKeyFromRequest(c); key != "" && verifier.VerifyStaticKey(ctx, key) == nil {
		return "key:" + authService.HashCredential(key)[:clientIDHashLength]
	}
	if token := authHTTP.TokenFromRequest(c); token != "" {
		if _, err := verifier.VerifyToken(ctx, token); err == nil {
			return "token:" + authService.HashCredential(token)[:clientIDHashLength]
		}
	}
	return "ip:" + c.ClientIP()
}

// AccountingMiddleware admits the request through the fixed-window limiter and, once the
// request completed, records one audit entry for it. Rejected requests get 429 with a
// Retry-After header and are recorded too.
//
// A limiter backend failure lets the request through and is logged. A recording failure
// is logged and does not change the response.
func AccountingMiddleware(
	limiter ledgerService.RateLimiter,
	verifier CredentialVerifier,
	ledger ledgerUseCase.LedgerUseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		clientID := ClientIdentity(c, verifier)

		decision, err := limiter.Admit(c.Request.Context(), clientID, start)
		if err != nil {
			logger.Error("rate limiter unavailable",
				slog.String("client_id", clientID),
				slog.Any("error", err))
		}

		if decision != nil {
			c.Header(headerRateLimitLimit, strconv.FormatInt(decision.Limit, 10))
			c.Header(headerRateLimitRemaining, strconv.FormatInt(decision.Remaining, 10))
			c.Header(headerRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))
		}

		if decision != nil && !decision.Allowed {
			retryAfter := decision.RetryAfter(start)
			logger.Debug("rate limit exceeded",
				slog.String("client_id", clientID),
				slog.Int64("count", decision.Count),
				slog.Duration("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
			httputil.HandleErrorGin(c, ledgerDomain.ErrRateLimitExceeded, nil)
			c.Abort()
		} else {
			c.Next()
		}

		record(c, ledger, logger, &ledgerDomain.AuditEntry{
			ClientID:       clientID,
			Endpoint:       endpointOf(c),
			Method:         c.Request.Method,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMs: time.Since(start).Milliseconds(),
			UserAgent:      c.Request.UserAgent(),
			IPAddress:      c.ClientIP(),
			Timestamp:      start.UTC(),
		})
	}
}

func record(c *gin.Context, ledger ledgerUseCase.LedgerUseCase, logger *slog.Logger, entry *ledgerDomain.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), recordTimeout)
	defer cancel()

	if err := ledger.Record(ctx, entry); err != nil {
		logger.Error("failed to record audit entry",
			slog.String("client_id", entry.ClientID),
			slog.String("endpoint", entry.Endpoint),
			slog.Any("error", err))
	}
}

// endpointOf returns the matched route template, or the raw path for unmatched requests.
// Templates keep secret names out of the ledger.
func endpointOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}
