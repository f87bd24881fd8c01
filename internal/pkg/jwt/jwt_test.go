package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/qhamayedwa/altron-wfm-backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService(testSecret, "one hour")
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "user@example.com", user.RolePayroll)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "payroll", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateSSEToken("user-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.GenerateAccessToken("user-1", "user@example.com", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateSSEToken_RejectsForeignSignature(t *testing.T) {
	other, err := NewJWTService("another-secret", "1h")
	require.NoError(t, err)
	token, _, err := other.GenerateSSEToken("user-1")
	require.NoError(t, err)

	_, err = newTestService(t).ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_Expired(t *testing.T) {
	svc := newTestService(t).(*JWTService)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}
