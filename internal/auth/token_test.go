package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	codec := NewJWTCodec("test_jwt_secret", time.Hour)

	token, err := codec.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	id, err := codec.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestJWTCodec_VerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTCodec("secret-a", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewJWTCodec("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_VerifyRejectsExpiredToken(t *testing.T) {
	codec := NewJWTCodec("test_jwt_secret", time.Hour)
	codec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := codec.Issue(7)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCodec_VerifyRejectsMalformedToken(t *testing.T) {
	codec := NewJWTCodec("test_jwt_secret", time.Hour)

	for _, token := range []string{"", "invalid.token.string", "abc"} {
		_, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestJWTCodec_VerifyRejectsMissingClaims(t *testing.T) {
	secret := []byte("test_jwt_secret")
	codec := NewJWTCodec(string(secret), time.Hour)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = codec.Verify(noID)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id": 3,
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = codec.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTCodec_DefaultTTL(t *testing.T) {
	codec := NewJWTCodec("s", 0)
	assert.Equal(t, 7*24*time.Hour, codec.ttl)
}
