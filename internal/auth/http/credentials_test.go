package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{name: "bearer", headers: map[string]string{"Authorization": "Bearer abc"}, expected: "abc"},
		{name: "lowercase scheme", headers: map[string]string{"Authorization": "bearer abc"}, expected: "abc"},
		{name: "token header", headers: map[string]string{"token": "xyz"}, expected: "xyz"},
		{
			name:     "authorization wins",
			headers:  map[string]string{"Authorization": "Bearer abc", "token": "xyz"},
			expected: "abc",
		},
		{name: "basic scheme ignored", headers: map[string]string{"Authorization": "Basic abc"}, expected: ""},
		{name: "empty bearer", headers: map[string]string{"Authorization": "Bearer "}, expected: ""},
		{name: "none", headers: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := createTestContext(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, TokenFromRequest(c))
		})
	}
}

func TestStaticKeyFromRequest(t *testing.T) {
	c, _ := createTestContext(http.MethodGet, "/", nil)
	assert.Empty(t, StaticKeyFromRequest(c))

	c.Request.Header.Set("api-key", "legacy")
	assert.Equal(t, "legacy", StaticKeyFromRequest(c))

	c.Request.Header.Set("X-API-Key", "primary")
	assert.Equal(t, "primary", StaticKeyFromRequest(c))
}
