// Package mocks provides mock implementations of the secrets use case and its repository.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	secretsDomain "github.com/allisson/gatekeeper/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository for testing.
type MockSecretRepository struct {
	mock.Mock
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// GetByName mocks the GetByName method of SecretRepository.
func (m *MockSecretRepository) GetByName(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// GetByNameForUpdate mocks the GetByNameForUpdate method of SecretRepository.
func (m *MockSecretRepository) GetByNameForUpdate(
	ctx context.Context,
	name string,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// UpdateValue mocks the UpdateValue method of SecretRepository.
func (m *MockSecretRepository) UpdateValue(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// List mocks the List method of SecretRepository.
func (m *MockSecretRepository) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

// Delete mocks the Delete method of SecretRepository.
func (m *MockSecretRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockSecretUseCase is a mock implementation of SecretUseCase for testing.
type MockSecretUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SecretUseCase.
func (m *MockSecretUseCase) Create(
	ctx context.Context,
	actor *authDomain.Claims,
	input *secretsDomain.CreateSecretInput,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Get mocks the Get method of SecretUseCase.
func (m *MockSecretUseCase) Get(
	ctx context.Context,
	actor *authDomain.Claims,
	name string,
	decrypt bool,
) (*secretsDomain.SecretView, error) {
	args := m.Called(ctx, actor, name, decrypt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SecretView), args.Error(1)
}

// Rotate mocks the Rotate method of SecretUseCase.
func (m *MockSecretUseCase) Rotate(
	ctx context.Context,
	actor *authDomain.Claims,
	name string,
	newValue []byte,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, actor, name, newValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// List mocks the List method of SecretUseCase.
func (m *MockSecretUseCase) List(
	ctx context.Context,
	actor *authDomain.Claims,
	offset, limit int,
) ([]*secretsDomain.SecretView, error) {
	args := m.Called(ctx, actor, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.SecretView), args.Error(1)
}
