package auth

import (
	"testing"
	"time"

	"edlink/config"
	"edlink/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{AccessSecret: "test-secret", AccessExpiry: time.Hour, Issuer: "edlink-test"}
}

func TestResolveRoundTrip(t *testing.T) {
	cfg := testJWT()
	token, err := GenerateAccessToken(cfg, 7, "alice@test.local", domain.RoleStudent)
	require.NoError(t, err)

	id, err := NewResolver(cfg).Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id.UserID)
	assert.Equal(t, "alice@test.local", id.Email)
	assert.Equal(t, domain.RoleStudent, id.Role)
}

func TestResolveRejects(t *testing.T) {
	cfg := testJWT()
	r := NewResolver(cfg)

	wrongKey, err := GenerateAccessToken(&config.JWTConfig{AccessSecret: "other", AccessExpiry: time.Hour}, 7, "a@b", domain.RoleStudent)
	require.NoError(t, err)
	expired, err := GenerateAccessToken(&config.JWTConfig{AccessSecret: cfg.AccessSecret, AccessExpiry: -time.Minute}, 7, "a@b", domain.RoleStudent)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Role: "STUDENT"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not-a-jwt",
		"wrong key": wrongKey,
		"expired":   expired,
		"alg none":  none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	tok, ok = BearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}
