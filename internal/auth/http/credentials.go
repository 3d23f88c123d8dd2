package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderAPIKey carries the static API key.
	HeaderAPIKey = "X-API-Key"
	// HeaderAPIKeyAlt is the legacy static API key header.
	HeaderAPIKeyAlt = "api-key"
	// HeaderToken is the legacy header carrying a raw token.
	HeaderToken = "token"

	bearerPrefix = "bearer "
)

// StaticKeyFromRequest returns the static API key presented with the request, or "".
func StaticKeyFromRequest(c *gin.Context) string {
	if key := c.GetHeader(HeaderAPIKey); key != "" {
		return key
	}
	return c.GetHeader(HeaderAPIKeyAlt)
}

// TokenFromRequest returns the token presented with the request, or "". A Bearer
// Authorization header (case-insensitive scheme) wins over the token header.
func TokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}
	return strings.TrimSpace(c.GetHeader(HeaderToken))
}
