package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	t.Run("detail wins", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewAPIError(400, map[string]any{"detail": "Out of stock"}))
		assert.Equal(t, "Out of stock", ErrorMessage(err, "Failed to create order"))
	})

	t.Run("payload without detail falls back", func(t *testing.T) {
		err := NewAPIError(500, map[string]any{"message": "boom"})
		assert.Equal(t, "Failed to fetch orders", ErrorMessage(err, "Failed to fetch orders"))
	})

	t.Run("non api error falls back", func(t *testing.T) {
		assert.Equal(t, "Failed to track order", ErrorMessage(errors.New("dial tcp"), "Failed to track order"))
	})
}

func TestAPIError_Is(t *testing.T) {
	assert.ErrorIs(t, &APIError{Status: 401}, ErrUnauthorized)
	assert.ErrorIs(t, fmt.Errorf("x: %w", &APIError{Status: 404}), ErrNotFound)
	assert.NotErrorIs(t, &APIError{Status: 500}, ErrNotFound)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []string{"Size", "Color"}}
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid input: Size, Color", err.Error())
}

func TestDecodeList(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		items, count, err := DecodeList[Product]([]byte(`{"results":[{"id":1}],"count":25}`))
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 25, count)
	})

	t.Run("bare array", func(t *testing.T) {
		items, count, err := DecodeList[Order]([]byte(` [{"id":1},{"id":2}]`))
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, 2, count)
	})
}

func TestNewToken_ReadsJWTExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	tok := NewToken(raw, "r")

	assert.True(t, tok.Expiry.Equal(exp))
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, NewToken("mock-access-token", "").Expiry.IsZero())
}
