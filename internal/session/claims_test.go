package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaims(t *testing.T) {
	exp := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	token := signToken(t, jwt.MapClaims{
		"sub":  "maria@example.com",
		"nome": "Maria",
		"role": "CLIENTE",
		"exp":  exp.Unix(),
	})

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", claims.Subject)
	assert.Equal(t, "Maria", claims.Name)
	assert.Equal(t, "CLIENTE", claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))

	assert.False(t, claims.Expired(exp.Add(-time.Minute)))
	assert.True(t, claims.Expired(exp))
}

func TestParseClaims_Invalid(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseClaims_NoExpiry(t *testing.T) {
	claims, err := ParseClaims(signToken(t, jwt.MapClaims{"email": "joao@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", claims.Subject)
	assert.True(t, claims.ExpiresAt.IsZero())
	assert.False(t, claims.Expired(time.Now()))
}
