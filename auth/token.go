// Package auth verifies the bearer credentials presented at connection time
// and resolves user display names. Token issuance lives with the account
// service; the helpers here exist for tooling and tests.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
)

// CookieName matches the cookie the account service sets at login. Its value
// carries the "Bearer " prefix.
const CookieName = "access_token"

// TokenService verifies HS256 bearer tokens whose subject is the user id.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a token for the given user id.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, returning the user id from the sub
// claim. Expired or tampered tokens fail with ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	switch sub := claims["sub"].(type) {
	case string:
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return 0, ErrInvalidToken
		}
		return id, nil
	case float64:
		return int64(sub), nil
	default:
		return 0, ErrInvalidToken
	}
}

// TokenFromRequest extracts the bearer token from the access_token cookie or
// the Authorization header. The "Bearer " prefix is required either way.
func TokenFromRequest(r *http.Request) (string, error) {
	raw := ""
	if cookie, err := r.Cookie(CookieName); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		raw = r.Header.Get("Authorization")
	}
	if raw == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return "", ErrInvalidToken
	}
	return strings.TrimPrefix(raw, "Bearer "), nil
}
