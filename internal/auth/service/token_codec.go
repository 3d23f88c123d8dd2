package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// tokenClaims is the JWT payload: registered claims plus the permission list.
type tokenClaims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// jwtTokenCodec implements TokenCodec with compact JWTs signed by HMAC-SHA256.
type jwtTokenCodec struct {
	key    []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenCodec creates an HS256 token codec. now is the clock used for expiry checks;
// nil selects time.Now.
func NewTokenCodec(signingKey []byte, now func() time.Time) (TokenCodec, error) {
	if len(signingKey) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing key is required")
	}
	if now == nil {
		now = time.Now
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	return &jwtTokenCodec{
		key: key,
		now: now,
		// The parser rejects now >= exp; the leeway lets the exact expiry second through
		// so Verify can apply the inclusive bound itself.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(authDomain.Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(time.Second),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// Sign serializes claims into a signed compact token.
func (j *jwtTokenCodec) Sign(claims *authDomain.Claims) (string, error) {
	payload := tokenClaims{
		Permissions: claims.PermissionStrings(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Issuer:    claims.Issuer,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(j.key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return token, nil
}

// Verify parses and validates token. The key function refuses anything that is not
// HMAC, which together with WithValidMethods closes "none" and RS/HS confusion.
func (j *jwtTokenCodec) Verify(token string) (*authDomain.Claims, error) {
	if token == "" {
		return nil, authDomain.ErrMissingToken
	}

	var payload tokenClaims
	_, err := j.parser.ParseWithClaims(token, &payload, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authDomain.ErrInvalidToken
		}
		return j.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrExpiredToken
		}
		return nil, authDomain.ErrInvalidToken
	}

	claims := &authDomain.Claims{
		ID:          payload.ID,
		Subject:     payload.Subject,
		Permissions: authDomain.NormalizePermissions(payload.Permissions),
		Issuer:      payload.Issuer,
		ExpiresAt:   payload.ExpiresAt.Time,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}
	if claims.IsExpired(j.now()) {
		return nil, authDomain.ErrExpiredToken
	}
	return claims, nil
}
