package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	authDTO "github.com/allisson/gatekeeper/internal/auth/http/dto"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
)

// RunIssueToken signs a token offline with the server's signing key. The token is accepted
// by any instance sharing the key but is unknown to its in-memory registry until presented.
func RunIssueToken(
	ctx context.Context,
	gateway authUseCase.GatewayUseCase,
	logger *slog.Logger,
	writer io.Writer,
	subject string,
	permissions []string,
	ttlHours int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	req := authDTO.IssueTokenRequest{
		Subject:     subject,
		Permissions: permissions,
		TTLHours:    ttlHours,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid token request: %w", err)
	}

	output, err := gateway.IssueToken(ctx, req.ToInput())
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("token issued",
		slog.String("subject", output.Claims.Subject),
		slog.String("token_id", output.Claims.ID),
		slog.Time("expires_at", output.Claims.ExpiresAt),
	)

	if format == "json" {
		return writeJSON(writer, authDTO.MapIssueTokenOutputToResponse(output))
	}

	perms := make([]string, 0, len(output.Claims.Permissions))
	for _, p := range output.Claims.Permissions {
		perms = append(perms, string(p))
	}
	_, _ = fmt.Fprintf(writer, "Token: %s\n", output.Token)
	_, _ = fmt.Fprintf(writer, "Subject: %s\n", output.Claims.Subject)
	_, _ = fmt.Fprintf(writer, "Permissions: %s\n", strings.Join(perms, ", "))
	_, _ = fmt.Fprintf(writer, "Expires At: %s\n", output.Claims.ExpiresAt.Format(time.RFC3339))
	return nil
}
