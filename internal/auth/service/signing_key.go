package service

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

// signingKeyInfo is versioned so the derivation can change without reusing keys.
const signingKeyInfo = "token-signing-v1"

// DeriveSigningKey derives a 32-byte token signing key from the content encryption key
// with HKDF-SHA256, so the encryption key itself never signs anything.
func DeriveSigningKey(encryptionKey []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, encryptionKey, nil, []byte(signingKeyInfo))

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, signingKey); err != nil {
		return nil, err
	}
	return signingKey, nil
}

// HashCredential returns the hex SHA-256 of a presented credential. Used as a lookup key
// so raw tokens and keys are never stored or logged.
func HashCredential(credential string) string {
	hash := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(hash[:])
}
