package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	errTokenExpired   = errors.New("token expired")
	errTokenInvalid   = errors.New("invalid token")
	errBadCredentials = errors.New("invalid credentials")
)

// maxPasswordBytes is bcrypt's input limit. The binding tag counts runes, so
// multibyte passwords are checked against this separately.
const maxPasswordBytes = 72

// defaultTokenTTL is how long a session token stays valid after issuance.
const defaultTokenTTL = 24 * time.Hour

// hashPassword returns a salted bcrypt hash of password.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", newValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// checkPassword reports whether password matches hash.
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// sessionClaims is the signed payload of a session token.
type sessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// tokenIssuer mints and verifies HS256 session tokens. Verification is
// stateless; nothing is persisted per session.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &tokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// issue returns a token for userID expiring ttl from now.
func (t *tokenIssuer) issue(userID string) (string, error) {
	now := t.now()
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// verify checks signature and expiry and returns the embedded user id.
// Expired tokens yield errTokenExpired; anything else wrong yields errTokenInvalid.
func (t *tokenIssuer) verify(token string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", errTokenExpired
	case err != nil:
		return "", errTokenInvalid
	case claims.UserID == "":
		return "", errTokenInvalid
	}
	return claims.UserID, nil
}
