package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	"github.com/allisson/gatekeeper/internal/httputil"
)

// StaticKeyMiddleware authenticates the caller with the static API key presented in the
// X-API-Key (or api-key) header. It is the coarse credential tier and carries no permissions.
//
// Error handling:
//   - Missing or wrong key → 401 Unauthorized
func StaticKeyMiddleware(gateway authUseCase.GatewayUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := StaticKeyFromRequest(c)
		if presented == "" {
			logger.Debug("authentication failed: missing static key")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidStaticKey, logger)
			c.Abort()
			return
		}

		if err := gateway.VerifyStaticKey(c.Request.Context(), presented); err != nil {
			logger.Debug("authentication failed: static key mismatch")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		setPrincipal(c, &authDomain.Principal{
			Kind:    authDomain.PrincipalStaticKey,
			Subject: authDomain.StaticKeySubject,
		})
		c.Next()
	}
}

// TokenMiddleware authenticates the caller with a signed token presented as
// "Authorization: Bearer <token>" (or in the token header) and, when required is non-empty,
// checks that the token carries one of the required permissions.
//
// Error handling:
//   - Missing, malformed, forged, revoked or expired token → 401 Unauthorized
//   - Valid token without a required permission → 403 Forbidden
//
// Usage:
//
//	router.GET("/v1/secrets/:name",
//	    TokenMiddleware(gateway, logger, authDomain.PermissionReadSecrets),
//	    handler)
func TokenMiddleware(
	gateway authUseCase.GatewayUseCase,
	logger *slog.Logger,
	required ...authDomain.Permission,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticateToken(c, gateway, logger, TokenFromRequest(c), required) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaticKeyOrTokenMiddleware accepts either credential tier. A static key, when presented,
// is checked first and grants access without permission scoping; otherwise a token carrying
// one of the required permissions is needed.
func StaticKeyOrTokenMiddleware(
	gateway authUseCase.GatewayUseCase,
	logger *slog.Logger,
	required ...authDomain.Permission,
) gin.HandlerFunc {
	staticKey := StaticKeyMiddleware(gateway, logger)
	return func(c *gin.Context) {
		if StaticKeyFromRequest(c) != "" {
			staticKey(c)
			return
		}
		if !authenticateToken(c, gateway, logger, TokenFromRequest(c), required) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticateToken verifies token, writes the error response on failure and stores the
// principal on success.
func authenticateToken(
	c *gin.Context,
	gateway authUseCase.GatewayUseCase,
	logger *slog.Logger,
	token string,
	required []authDomain.Permission,
) bool {
	claims, err := gateway.VerifyToken(c.Request.Context(), token, required...)
	if err != nil {
		logger.Debug("authentication failed", slog.Any("error", err))
		httputil.HandleErrorGin(c, err, logger)
		return false
	}

	setPrincipal(c, &authDomain.Principal{
		Kind:    authDomain.PrincipalToken,
		Subject: claims.Subject,
		Claims:  claims,
	})

	logger.Debug("authentication successful",
		slog.String("subject", claims.Subject),
		slog.String("token_id", claims.ID))
	return true
}

func setPrincipal(c *gin.Context, principal *authDomain.Principal) {
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
}
