package commands

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/gatekeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/gatekeeper/internal/crypto/service"
)

// RunCreateEncryptionKey generates a 32-byte content key and prints it in the form
// ENCRYPTION_KEY expects. With kmsKeyURI set, the key is wrapped by the KMS and printed as
// base64 ciphertext together with KMS_KEY_URI. Key material is zeroed after encoding.
func RunCreateEncryptionKey(
	ctx context.Context,
	kms cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	key, err := cryptoService.GenerateKey()
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	if kmsKeyURI == "" {
		logger.Info("generated encryption key")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", hex.EncodeToString(key))
		return nil
	}

	wrapped, err := cryptoService.WrapKey(ctx, kms, kmsKeyURI, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}

	logger.Info("generated KMS-wrapped encryption key")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(wrapped))
	return nil
}
