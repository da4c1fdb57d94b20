package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, missing subject, expired. Callers only ever learn
// "unauthenticated", never which check failed.
var ErrInvalidToken = errors.New("invalid token")

// ErrNoSigningKey indicates the manager was constructed without a secret.
var ErrNoSigningKey = errors.New("jwt signing key not configured")

// DefaultAccessTTL is the session token lifetime when none is configured.
const DefaultAccessTTL = 30 * time.Minute

// JWTManager issues and verifies HS256 session tokens. Tokens carry only a
// subject (the user id) and an expiry; expiry is the sole invalidation
// mechanism, there is no revocation list.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	m := &JWTManager{Secret: []byte(secret), TTL: ttl}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

// Generate signs a token for the given subject expiring TTL from now.
func (m *JWTManager) Generate(subject string) (string, time.Time, error) {
	if len(m.Secret) == 0 {
		return "", time.Time{}, ErrNoSigningKey
	}
	exp := time.Now().Add(m.TTL)
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify checks the signature, expiry, and presence of a subject claim,
// and returns the subject. All failures collapse into ErrInvalidToken.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
