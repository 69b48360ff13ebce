package auth

import (
	"testing"
	"time"

	"huellitas/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "huellitas-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAccessToken(cfg, 42, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 1, "x@example.com")
	require.NoError(t, err)

	other := testJWTConfig()
	other.AccessSecret = "a-different-secret"
	_, err = ParseAccessToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute

	token, err := GenerateAccessToken(cfg, 1, "x@example.com")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken(testJWTConfig(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
