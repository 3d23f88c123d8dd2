package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
)

// KeySource describes where the content key comes from. Inline wins over File.
// When KMSKeyURI is set the material is base64 of a KMS ciphertext rather than the key.
type KeySource struct {
	Inline    string
	File      string
	KMSKeyURI string
}

// GenerateKey returns a new random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// DecodeKey parses a 32-byte key given as 64 hex characters or base64 (standard or URL alphabet).
func DecodeKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)

	if len(encoded) == hex.EncodedLen(cryptoDomain.KeySize) {
		if key, err := hex.DecodeString(encoded); err == nil {
			return key, nil
		}
	}

	key, err := decodeBase64(encoded)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyEncoding
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return key, nil
}

// LoadKey resolves the content key from src. A configured File that does not exist yet is
// created with a freshly generated key (wrapped by the KMS when configured) and mode 0600.
func LoadKey(ctx context.Context, kms KMSService, src KeySource) ([]byte, error) {
	switch {
	case src.Inline != "":
		return materialToKey(ctx, kms, src.KMSKeyURI, src.Inline)
	case src.File != "":
		data, err := os.ReadFile(src.File)
		if err == nil {
			return materialToKey(ctx, kms, src.KMSKeyURI, string(data))
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		return generateKeyFile(ctx, kms, src)
	default:
		return nil, cryptoDomain.ErrKeyNotConfigured
	}
}

func materialToKey(ctx context.Context, kms KMSService, keyURI, material string) ([]byte, error) {
	if keyURI == "" {
		return DecodeKey(material)
	}

	wrapped, err := decodeBase64(strings.TrimSpace(material))
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeyEncoding
	}

	key, err := UnwrapKey(ctx, kms, keyURI, wrapped)
	if err != nil {
		return nil, err
	}
	if len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	return key, nil
}

func generateKeyFile(ctx context.Context, kms KMSService, src KeySource) ([]byte, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	var material string
	if src.KMSKeyURI != "" {
		wrapped, err := WrapKey(ctx, kms, src.KMSKeyURI, key)
		if err != nil {
			cryptoDomain.Zero(key)
			return nil, err
		}
		material = base64.StdEncoding.EncodeToString(wrapped)
	} else {
		material = hex.EncodeToString(key)
	}

	if err := os.MkdirAll(filepath.Dir(src.File), 0o700); err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	// O_EXCL so two processes racing on first start cannot both write a key.
	f, err := os.OpenFile(src.File, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		cryptoDomain.Zero(key)
		if errors.Is(err, fs.ErrExist) {
			return LoadKey(ctx, kms, src)
		}
		return nil, fmt.Errorf("failed to create key file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteString(material + "\n"); err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return key, nil
}

func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, errors.New("not base64")
}
