package commands

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authMocks "github.com/allisson/gatekeeper/internal/auth/usecase/mocks"
)

func TestPurgeExpiredTokens(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("purges until canceled", func(t *testing.T) {
		gateway := &authMocks.MockGatewayUseCase{}
		purged := make(chan struct{}, 1)
		gateway.On("PurgeExpired", mock.Anything).Return(2).Run(func(mock.Arguments) {
			select {
			case purged <- struct{}{}:
			default:
			}
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- purgeExpiredTokens(ctx, gateway, 5*time.Millisecond, logger)
		}()

		select {
		case <-purged:
		case <-time.After(time.Second):
			t.Fatal("PurgeExpired was not called")
		}
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("purge loop did not stop")
		}
	})

	t.Run("returns immediately on canceled context", func(t *testing.T) {
		gateway := &authMocks.MockGatewayUseCase{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NoError(t, purgeExpiredTokens(ctx, gateway, time.Hour, logger))
		gateway.AssertNotCalled(t, "PurgeExpired", mock.Anything)
	})
}
