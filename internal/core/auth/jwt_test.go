package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "clindoeil", TTL: time.Minute}

	tok, err := j.Issue("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UID)
	assert.Equal(t, "clindoeil", claims.Issuer)
	assert.NotNil(t, claims.IssuedAt)
}

func TestParseWrongSecret(t *testing.T) {
	a := &JWTer{Secret: []byte("secret-a"), Issuer: "clindoeil", TTL: time.Minute}
	b := &JWTer{Secret: []byte("secret-b"), Issuer: "clindoeil", TTL: time.Minute}

	tok, err := a.Issue("user-1")
	require.NoError(t, err)

	_, err = b.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "clindoeil", TTL: -time.Minute}

	tok, err := j.Issue("user-1")
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongIssuer(t *testing.T) {
	a := &JWTer{Secret: []byte("secret"), Issuer: "someone-else", TTL: time.Minute}
	b := &JWTer{Secret: []byte("secret"), Issuer: "clindoeil", TTL: time.Minute}

	tok, err := a.Issue("user-1")
	require.NoError(t, err)

	_, err = b.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "clindoeil", TTL: time.Minute}
	_, err := j.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessAndRefreshAreNotInterchangeable(t *testing.T) {
	pair := NewTokenPair("clindoeil", "access-secret", time.Minute, "refresh-secret", time.Hour)

	access, err := pair.Access.Issue("user-1")
	require.NoError(t, err)

	_, err = pair.Refresh.Parse(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
