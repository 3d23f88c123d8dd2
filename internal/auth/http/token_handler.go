package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/gatekeeper/internal/auth/http/dto"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// TokenHandler handles HTTP requests for token operations.
// It coordinates token issuance, introspection and revocation with the GatewayUseCase.
type TokenHandler struct {
	gateway authUseCase.GatewayUseCase
	logger  *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(gateway authUseCase.GatewayUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// IssueTokenHandler issues a new token.
// POST /v1/tokens - Requires the static API key.
// Returns 201 Created with the token, its type and expiration time.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.gateway.IssueToken(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("token issued",
		slog.String("subject", output.Claims.Subject),
		slog.String("token_id", output.Claims.ID),
		slog.Any("permissions", output.Claims.PermissionStrings()))

	c.JSON(http.StatusCreated, dto.MapIssueTokenOutputToResponse(output))
}

// IntrospectTokenHandler reports whether a token is active.
// POST /v1/tokens/introspect - Requires the static API key.
// Returns 200 OK with {"active": false} for unknown, revoked or expired tokens.
func (h *TokenHandler) IntrospectTokenHandler(c *gin.Context) {
	var req dto.IntrospectTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	claims, active := h.gateway.Introspect(c.Request.Context(), req.Token)
	c.JSON(http.StatusOK, dto.IntrospectTokenResponse{
		Active: active,
		Claims: dto.MapClaimsToResponse(claims),
	})
}

// RevokeTokenHandler revokes the token used to authenticate the request.
// DELETE /v1/tokens - Requires a token.
// Returns 204 No Content.
func (h *TokenHandler) RevokeTokenHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok || principal.Claims == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.gateway.Revoke(c.Request.Context(), TokenFromRequest(c)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("token revoked",
		slog.String("subject", principal.Subject),
		slog.String("token_id", principal.Claims.ID))

	c.Data(http.StatusNoContent, "application/json", nil)
}

// MeHandler returns the authenticated principal.
// GET /v1/me - Requires a token.
func (h *TokenHandler) MeHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPrincipalToResponse(principal))
}
