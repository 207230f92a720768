package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "vacantes", TokenExp: time.Minute})
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueToken(42, "STUDENT", "ana@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "STUDENT", claims.RoleType)
	assert.Equal(t, "STUDENT:42", claims.Subject)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", TokenIssuer: "vacantes"})
	token, err := other.IssueToken(1, "PROFESSOR", "")
	require.NoError(t, err)

	_, err = newTestService().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenExp: time.Nanosecond})
	token, err := svc.IssueToken(1, "STUDENT", "")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAndExtractClaimsRequiresRole(t *testing.T) {
	svc := newTestService()
	token, err := svc.IssueToken(5, "", "")
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Bearer   ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
