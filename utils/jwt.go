package utils

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "DigitalMenu"

// DevSessionSecret signs sessions when no secret is configured. It is
// public, so release builds refuse to start with it.
const DevSessionSecret = "dev-session-secret"

var (
	jwtSecret  = []byte(DevSessionSecret)
	sessionTTL = 24 * time.Hour
	jwtMu      sync.RWMutex
)

// ConfigureSessions sets the signing secret and lifetime of session tokens.
func ConfigureSessions(secret string, ttl time.Duration) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		sessionTTL = ttl
	}
}

// SessionClaims is the client-held session marker. It only says who is
// asking; every authorization decision re-reads the owner row.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(email string) (string, time.Time, error) {
	jwtMu.RLock()
	secret, ttl := jwtSecret, sessionTTL
	jwtMu.RUnlock()

	expiresAt := time.Now().Add(ttl)
	claims := &SessionClaims{
		Email: strings.ToLower(strings.TrimSpace(email)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(strings.TrimSpace(email)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    tokenIssuer,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		ErrorLogger.Printf("Error generating session token: %v", err)
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	jwtMu.RLock()
	secret := jwtSecret
	jwtMu.RUnlock()

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Email == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
