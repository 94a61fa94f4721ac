package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/ekklesia/internal/models"
)

const accessTokenIssuer = "ekklesia"

var (
	ErrAccessTokenMissing = errors.New("missing access token")
	ErrAccessTokenInvalid = errors.New("invalid access token")
	ErrAccessTokenExpired = errors.New("expired access token")
)

// AccessClaims ride in HS256 bearer tokens. PasswordState ties a token to
// the password hash it was issued against, so a reset revokes it.
type AccessClaims struct {
	Role          string `json:"role"`
	PasswordState string `json:"pws"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenIssuer(secretKey []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secretKey: secretKey, ttl: ttl}
}

func (issuer *TokenIssuer) TTL() time.Duration {
	return issuer.ttl
}

func (issuer *TokenIssuer) Issue(user models.User, now time.Time) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now()
	}
	expiresAt := now.Add(issuer.ttl)

	claims := AccessClaims{
		Role:          string(user.Role),
		PasswordState: PasswordStateFingerprint(user.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    accessTokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(issuer.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (issuer *TokenIssuer) Parse(rawToken string, now time.Time) (*AccessClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrAccessTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return issuer.secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithIssuer(accessTokenIssuer))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrAccessTokenExpired
	}
	if err != nil || !token.Valid {
		return nil, ErrAccessTokenInvalid
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, ErrAccessTokenExpired
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrAccessTokenInvalid
	}
	return claims, nil
}

func PasswordStateFingerprint(passwordHash string) string {
	normalizedHash := strings.TrimSpace(passwordHash)
	if normalizedHash == "" {
		return ""
	}

	sum := sha256.Sum256([]byte("ekklesia.access.password-state.v1:" + normalizedHash))
	return base64.RawURLEncoding.EncodeToString(sum[:16])
}

func IsPasswordStateFingerprintMatch(expected string, passwordHash string) bool {
	actual := PasswordStateFingerprint(passwordHash)
	if strings.TrimSpace(expected) == "" || strings.TrimSpace(actual) == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
