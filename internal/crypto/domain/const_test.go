package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlgorithmID(t *testing.T) {
	tests := []struct {
		alg Algorithm
		id  byte
	}{
		{AESGCM, 1},
		{ChaCha20, 2},
		{Algorithm("rot13"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			assert.Equal(t, tt.id, tt.alg.ID())
		})
	}
}

func TestAlgorithmFromID(t *testing.T) {
	for _, alg := range []Algorithm{AESGCM, ChaCha20} {
		got, ok := AlgorithmFromID(alg.ID())
		assert.True(t, ok)
		assert.Equal(t, alg, got)
	}

	_, ok := AlgorithmFromID(0)
	assert.False(t, ok)
	_, ok = AlgorithmFromID(9)
	assert.False(t, ok)
}
