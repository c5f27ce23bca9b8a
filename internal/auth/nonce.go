package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ActionBogoAdd is the nonce action guarding BOGO add-to-cart requests
const ActionBogoAdd = "bogo_add_nonce"

var (
	ErrInvalidNonce = errors.New("invalid nonce")
)

// NonceClaims binds a token to an action and a cart session.
type NonceClaims struct {
	Action  string `json:"act"`
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

// NonceService issues and verifies request security tokens.
type NonceService struct {
	secret      []byte
	expireHours int
	now         func() time.Time
}

// NewNonceService creates a nonce service.
func NewNonceService(secret string, expireHours int) *NonceService {
	return &NonceService{
		secret:      []byte(secret),
		expireHours: expireHours,
		now:         time.Now,
	}
}

// Issue creates a token for the action, valid for the given cart session only.
func (s *NonceService) Issue(action, session string) (string, error) {
	now := s.now()
	claims := NonceClaims{
		Action:  action,
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry and the action/session binding.
func (s *NonceService) Verify(tokenString, action, session string) error {
	if tokenString == "" {
		return ErrInvalidNonce
	}
	token, err := jwt.ParseWithClaims(tokenString, &NonceClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidNonce
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return ErrInvalidNonce
	}
	claims, ok := token.Claims.(*NonceClaims)
	if !ok || !token.Valid {
		return ErrInvalidNonce
	}
	if claims.Action != action || claims.Session != session {
		return ErrInvalidNonce
	}
	return nil
}
