// Package mocks provides mock implementations of the gateway use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// MockGatewayUseCase is a mock implementation of GatewayUseCase for testing.
type MockGatewayUseCase struct {
	mock.Mock
}

// IssueToken mocks the IssueToken method of GatewayUseCase.
func (m *MockGatewayUseCase) IssueToken(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

// VerifyToken mocks the VerifyToken method of GatewayUseCase. The required permissions
// are matched as a single []authDomain.Permission argument.
func (m *MockGatewayUseCase) VerifyToken(
	ctx context.Context,
	token string,
	required ...authDomain.Permission,
) (*authDomain.Claims, error) {
	args := m.Called(ctx, token, required)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Claims), args.Error(1)
}

// VerifyStaticKey mocks the VerifyStaticKey method of GatewayUseCase.
func (m *MockGatewayUseCase) VerifyStaticKey(ctx context.Context, presented string) error {
	args := m.Called(ctx, presented)
	return args.Error(0)
}

// Introspect mocks the Introspect method of GatewayUseCase.
func (m *MockGatewayUseCase) Introspect(ctx context.Context, token string) (*authDomain.Claims, bool) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*authDomain.Claims), args.Bool(1)
}

// Revoke mocks the Revoke method of GatewayUseCase.
func (m *MockGatewayUseCase) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// PurgeExpired mocks the PurgeExpired method of GatewayUseCase.
func (m *MockGatewayUseCase) PurgeExpired(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}
