package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// JWTer signs and verifies one token family (access or refresh). It is a
// pure function of its inputs and wall-clock time; nothing is stored.
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(uid string) (string, error) {
	now := time.Now()
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse verifies signature, issuer and expiry. Malformed, expired and
// signature-mismatched tokens all come back as ErrInvalidToken; callers
// decide user-facing messaging.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer))

	if err != nil {
		return nil, ErrInvalidToken
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, ErrInvalidToken
}

// TokenPair bundles the two signers the session lifecycle needs: a
// short-lived access token returned in response bodies and a longer-lived
// refresh token that only ever travels in an HTTP-only cookie.
type TokenPair struct {
	Access  JWTer
	Refresh JWTer
}

func NewTokenPair(issuer, accessSecret string, accessTTL time.Duration, refreshSecret string, refreshTTL time.Duration) *TokenPair {
	return &TokenPair{
		Access:  JWTer{Secret: []byte(accessSecret), Issuer: issuer, TTL: accessTTL},
		Refresh: JWTer{Secret: []byte(refreshSecret), Issuer: issuer, TTL: refreshTTL},
	}
}
