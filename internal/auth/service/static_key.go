package service

import (
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

const argon2idPrefix = "$argon2id$"

// staticKeyVerifier implements StaticKeyVerifier. The configured key is either the plain
// key (compared in constant time) or an argon2id hash produced by HashAPIKey. Hash
// verification is slow by construction, so successful checks are remembered by the
// SHA-256 of the presented key.
type staticKeyVerifier struct {
	plain    []byte
	hash     string
	hasher   *pwdhash.PasswordHasher
	verified sync.Map // map[string]struct{}
}

// NewStaticKeyVerifier creates a verifier for the configured API key.
func NewStaticKeyVerifier(configured string) (StaticKeyVerifier, error) {
	if configured == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "api key is required")
	}

	if !strings.HasPrefix(configured, argon2idPrefix) {
		return &staticKeyVerifier{plain: []byte(configured)}, nil
	}

	hasher, err := newAPIKeyHasher()
	if err != nil {
		return nil, err
	}
	return &staticKeyVerifier{hash: configured, hasher: hasher}, nil
}

// Verify reports whether presented is the configured key.
func (s *staticKeyVerifier) Verify(presented string) bool {
	if presented == "" {
		return false
	}

	if s.hasher == nil {
		return subtle.ConstantTimeCompare([]byte(presented), s.plain) == 1
	}

	digest := HashCredential(presented)
	if _, ok := s.verified.Load(digest); ok {
		return true
	}

	ok, err := s.hasher.Verify([]byte(presented), s.hash)
	if err != nil || !ok {
		return false
	}
	s.verified.Store(digest, struct{}{})
	return true
}

// HashAPIKey returns the argon2id hash of key suitable for the API_KEY setting.
func HashAPIKey(key string) (string, error) {
	hasher, err := newAPIKeyHasher()
	if err != nil {
		return "", err
	}

	hashed, err := hasher.Hash([]byte(key))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash api key")
	}
	return hashed, nil
}

func newAPIKeyHasher() (*pwdhash.PasswordHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create api key hasher")
	}
	return hasher, nil
}
