package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	require.NoError(t, InitJWTSecret("test-secret"))

	token, err := GenerateJWT(42, "alice@example.com")
	require.NoError(t, err)

	userID, err := UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestInitJWTSecretRejectsEmpty(t *testing.T) {
	assert.Error(t, InitJWTSecret(""))
}

func TestUserIDFromTokenRejects(t *testing.T) {
	require.NoError(t, InitJWTSecret("test-secret"))

	sign := func(secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	valid := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "wrong secret", token: sign("other", jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "exp": valid})},
		{name: "expired", token: sign("test-secret", jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(-time.Hour).Unix()})},
		{name: "missing user id", token: sign("test-secret", jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com", "exp": valid})},
		{name: "non-positive user id", token: sign("test-secret", jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 0, "exp": valid})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UserIDFromToken(tt.token)
			assert.Error(t, err)
		})
	}
}
