package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrMalformedToken = errors.New("malformed token")

// AuthToken is the persisted record behind server-side revocation. Tokens
// are never mutated: they are created at login and deleted at logout.
type AuthToken struct {
	JTI        string    `json:"jti"`
	CustomerID int       `json:"customerId"`
	Token      string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// IssuedToken is what a successful login hands back to the client.
type IssuedToken struct {
	Token     string    `json:"token"`
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Signer produces HS256-signed tokens carrying subject, role, a fresh jti
// and an expiry of now + lifetime.
type Signer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewSigner(secret string, lifetime time.Duration) *Signer {
	return &Signer{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

func (s *Signer) Sign(customerID int, role string) (IssuedToken, error) {
	jti := uuid.NewString()
	expiresAt := s.now().Add(s.lifetime)

	claims := jwt.MapClaims{
		"user_id": customerID,
		"role":    role,
		"jti":     jti,
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// Parse validates signature and expiry and extracts the jti and subject.
// Any parse failure is reported as ErrMalformedToken so callers can map it
// to an authentication error instead of a server error.
func (s *Signer) Parse(raw string) (jti string, customerID int, err error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformedToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", 0, ErrMalformedToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, ErrMalformedToken
	}
	jti, ok = claims["jti"].(string)
	if !ok || jti == "" {
		return "", 0, ErrMalformedToken
	}
	sub, ok := claims["user_id"].(float64)
	if !ok {
		return "", 0, ErrMalformedToken
	}
	return jti, int(sub), nil
}
