package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKeyEncoding indicates key material is neither hex nor base64.
	ErrInvalidKeyEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid key encoding")

	// ErrKeyNotConfigured indicates no key source was configured.
	ErrKeyNotConfigured = errors.Wrap(errors.ErrInvalidInput, "encryption key not configured")

	// ErrDecryptionFailed indicates the ciphertext could not be authenticated under the
	// current key: wrong key, tampered bytes, unknown version or algorithm. The specific
	// cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCrypto, "decryption failed")

	// ErrEncryptionFailed indicates the cipher could not seal a value.
	ErrEncryptionFailed = errors.Wrap(errors.ErrCrypto, "encryption failed")
)
