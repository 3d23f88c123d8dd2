// Package mocks provides mock implementations of database interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager. Unless the expectation
// says otherwise, WithTx runs fn with the given context and returns its error.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager. A nil error configured on the expectation
// means "return whatever fn returns".
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
