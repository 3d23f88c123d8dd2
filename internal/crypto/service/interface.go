// Package service provides the secret cipher: AEAD primitives, the versioned ciphertext
// envelope, and loading of the process-wide content key.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length the cipher expects.
	NonceSize() int
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Cipher seals values at rest under the process-wide key.
type Cipher interface {
	// Encrypt returns an opaque, printable ciphertext.
	Encrypt(plaintext []byte) (string, error)

	// Decrypt returns the plaintext or ErrDecryptionFailed. Partial plaintext is never returned.
	Decrypt(ciphertext string) ([]byte, error)
}

// KMSService opens keepers for KMS-wrapped key material.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
