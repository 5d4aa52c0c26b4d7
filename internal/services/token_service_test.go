package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serdchef/coskunyayci-backend/internal/services"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := services.NewTokenService("test-secret", 15*time.Minute, 24*time.Hour)

	pair, err := svc.GenerateTokenPair("user-1", "ayse@example.com", "CUSTOMER")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken, "access")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "ayse@example.com", claims["email"])
	assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestTokenService_RejectsWrongType(t *testing.T) {
	svc := services.NewTokenService("test-secret", 15*time.Minute, 24*time.Hour)

	pair, err := svc.GenerateTokenPair("user-1", "ayse@example.com", "CUSTOMER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken, "access")
	assert.Error(t, err, "refresh token must not pass as an access token")

	_, err = svc.ValidateToken(pair.AccessToken, "refresh")
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	issuer := services.NewTokenService("secret-a", 15*time.Minute, 24*time.Hour)
	validator := services.NewTokenService("secret-b", 15*time.Minute, 24*time.Hour)

	pair, err := issuer.GenerateTokenPair("user-1", "ayse@example.com", "CUSTOMER")
	require.NoError(t, err)

	_, err = validator.ValidateToken(pair.AccessToken, "access")
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := services.NewTokenService("test-secret", -time.Minute, 24*time.Hour)

	pair, err := svc.GenerateTokenPair("user-1", "ayse@example.com", "CUSTOMER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, "access")
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := services.NewTokenService("test-secret", 15*time.Minute, 24*time.Hour)
	_, err := svc.ValidateToken("not-a-token", "access")
	assert.Error(t, err)
}
