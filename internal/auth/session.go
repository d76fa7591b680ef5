package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("session secret is not set")
	ErrInvalidToken  = errors.New("invalid session token")
)

type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Sessions signs and verifies anonymous browser session tokens.
type Sessions struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Sessions{key: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// New starts a session with a fresh id and returns it with its signed token.
func (s *Sessions) New() (string, string, error) {
	id := uuid.NewString()
	token, err := s.Issue(id)
	return id, token, err
}

func (s *Sessions) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *Sessions) Parse(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.key, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
