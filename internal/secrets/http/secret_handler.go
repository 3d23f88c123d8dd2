// Package http provides HTTP handlers for secret custody operations.
// Values are encrypted at rest and only travel in JSON bodies.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
	"github.com/allisson/gatekeeper/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/gatekeeper/internal/secrets/usecase"
	customValidation "github.com/allisson/gatekeeper/internal/validation"
)

// rotateSuffix ends the rotation route: POST /v1/secrets/<name>/rotate.
const rotateSuffix = "/rotate"

// SecretHandler handles HTTP requests for secret operations.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// CreateHandler creates a new secret.
// POST /v1/secrets - Requires manage:secrets.
// Returns 201 Created with secret metadata (the value is never echoed).
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("secret created",
		slog.String("name", secret.Name),
		slog.String("created_by", secret.CreatedBy))

	c.JSON(http.StatusCreated, dto.MapSecretToResponse(secret))
}

// GetHandler retrieves a secret by name.
// GET /v1/secrets/*name?decrypt=true - Requires read:secrets.
// Returns 200 OK with the plaintext value unless decrypt=false. SECURITY: the plaintext
// is zeroed after the response is written.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	name := secretName(c)
	if name == "" {
		httputil.HandleValidationErrorGin(c, errors.New("name cannot be empty"), h.logger)
		return
	}

	decrypt, err := strconv.ParseBool(c.DefaultQuery("decrypt", "true"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, errors.New("invalid decrypt parameter: must be a boolean"), h.logger)
		return
	}

	view, err := h.secretUseCase.Get(c.Request.Context(), actor, name, decrypt)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if view == nil {
		httputil.HandleErrorGin(c, secretsDomain.ErrSecretNotFound, h.logger)
		return
	}
	defer cryptoDomain.Zero(view.Value)

	c.JSON(http.StatusOK, dto.MapSecretViewToResponse(view))
}

// RotateHandler replaces the value of an existing secret.
// POST /v1/secrets/*name with a trailing /rotate - Requires manage:secrets.
// Returns 200 OK with the updated metadata.
func (h *SecretHandler) RotateHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	name, found := strings.CutSuffix(secretName(c), rotateSuffix)
	if !found {
		httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrNotFound, "route not found"), h.logger)
		return
	}
	if name == "" {
		httputil.HandleValidationErrorGin(c, errors.New("name cannot be empty"), h.logger)
		return
	}

	var req dto.RotateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Rotate(c.Request.Context(), actor, name, []byte(req.Value))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("secret rotated",
		slog.String("name", secret.Name),
		slog.String("rotated_by", actor.Subject))

	c.JSON(http.StatusOK, dto.MapSecretToResponse(secret))
}

// ListHandler lists secret metadata ordered by name.
// GET /v1/secrets?offset=0&limit=50 - Requires read:secrets.
func (h *SecretHandler) ListHandler(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	views, err := h.secretUseCase.List(c.Request.Context(), actor, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretViewsToListResponse(views))
}

// actor returns the token claims of the authenticated caller, writing a 401 when absent.
func (h *SecretHandler) actor(c *gin.Context) (*authDomain.Claims, bool) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok || principal.Claims == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return principal.Claims, true
}

func secretName(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("name"), "/")
}
