package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-matcher/internal/config"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret.
	other := NewJWTService(&config.JWTConfig{Secret: "other-secret", ExpirationHours: 1})
	token, err := other.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
