package app

import (
	"fmt"

	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	authRepository "github.com/allisson/gatekeeper/internal/auth/repository"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
)

// TokenCodec returns the token signer and verifier.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = c.initTokenCodec()
		if err != nil {
			c.initErrors["tokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// StaticKeyVerifier returns the verifier of the administrative API key.
func (c *Container) StaticKeyVerifier() (authService.StaticKeyVerifier, error) {
	var err error
	c.staticKeyInit.Do(func() {
		c.staticKey, err = authService.NewStaticKeyVerifier(c.config.APIKey)
		if err != nil {
			c.initErrors["staticKey"] = fmt.Errorf("failed to create static key verifier: %w", err)
		}
	})
	if storedErr, exists := c.initErrors["staticKey"]; exists {
		return nil, storedErr
	}
	return c.staticKey, nil
}

// TokenRegistry returns the in-memory registry of issued tokens.
func (c *Container) TokenRegistry() authUseCase.TokenRegistry {
	c.tokenRegistryInit.Do(func() {
		c.tokenRegistry = authRepository.NewMemoryTokenRegistry()
	})
	return c.tokenRegistry
}

// GatewayUseCase returns the gateway use case.
func (c *Container) GatewayUseCase() (authUseCase.GatewayUseCase, error) {
	var err error
	c.gatewayUseCaseInit.Do(func() {
		c.gatewayUseCase, err = c.initGatewayUseCase()
		if err != nil {
			c.initErrors["gatewayUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayUseCase"]; exists {
		return nil, storedErr
	}
	return c.gatewayUseCase, nil
}

// TokenHandler returns the HTTP handler for token operations.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initTokenCodec uses SIGNING_KEY when set and otherwise derives the signing key from the
// content key.
func (c *Container) initTokenCodec() (authService.TokenCodec, error) {
	var signingKey []byte
	if c.config.SigningKey != "" {
		key, err := cryptoService.DecodeKey(c.config.SigningKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode signing key: %w", err)
		}
		signingKey = key
	} else {
		encryptionKey, err := c.EncryptionKey()
		if err != nil {
			return nil, fmt.Errorf("failed to get encryption key for token codec: %w", err)
		}
		signingKey, err = authService.DeriveSigningKey(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to derive signing key: %w", err)
		}
	}

	codec, err := authService.NewTokenCodec(signingKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}
	return codec, nil
}

// initGatewayUseCase creates the gateway use case with all its dependencies.
func (c *Container) initGatewayUseCase() (authUseCase.GatewayUseCase, error) {
	codec, err := c.TokenCodec()
	if err != nil {
		return nil, err
	}

	staticKey, err := c.StaticKeyVerifier()
	if err != nil {
		return nil, err
	}

	baseUseCase := authUseCase.NewGatewayUseCase(
		codec,
		staticKey,
		c.TokenRegistry(),
		c.config.AuthTokenExpiration,
		nil,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for gateway use case: %w", err)
		}
		return authUseCase.NewGatewayUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenHandler creates the token HTTP handler with all its dependencies.
func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	gateway, err := c.GatewayUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway use case for token handler: %w", err)
	}
	return authHTTP.NewTokenHandler(gateway, c.Logger()), nil
}
