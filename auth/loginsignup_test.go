package auth

import (
	"testing"

	"orvia/globals"
	"orvia/middleware"
	"orvia/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	user := models.User{
		UserID:   "u1",
		Username: "alice",
		Role:     []string{"user", "admin"},
	}

	tokenString, err := generateAccessToken(user)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"user", "admin"}, claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestRefreshTokenHashing(t *testing.T) {
	first, err := generateRefreshToken()
	require.NoError(t, err)
	second, err := generateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	// same token hashes the same, different tokens do not
	assert.Equal(t, hashToken(first), hashToken(first))
	assert.NotEqual(t, hashToken(first), hashToken(second))
	assert.Len(t, hashToken(first), 64)
}
