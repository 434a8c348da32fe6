package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", "stepclass-hub")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueAndVerify(t *testing.T) {
	m, err := NewTokenManager("test-secret", "stepclass-hub")
	require.NoError(t, err)

	token, err := m.Issue("s1", "student", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "stepclass-hub", claims.Issuer)
	assert.Equal(t, "s1", claims.Subject)
}

func TestVerify_RejectsExpired(t *testing.T) {
	m, err := NewTokenManager("test-secret", "stepclass-hub")
	require.NoError(t, err)

	token, err := m.Issue("s1", "student", -time.Minute)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-a", "stepclass-hub")
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-b", "stepclass-hub")
	require.NoError(t, err)

	token, err := issuer.Issue("s1", "student", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsAlgSwap(t *testing.T) {
	m, err := NewTokenManager("test-secret", "stepclass-hub")
	require.NoError(t, err)

	// Токен с alg=none подписью не принимается даже с валидной структурой.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "s1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	m, err := NewTokenManager("test-secret", "stepclass-hub")
	require.NoError(t, err)

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
