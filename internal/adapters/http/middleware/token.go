package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims are the JWT claims carried by API bearer tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var ErrEmptySecret = errors.New("jwt secret cannot be empty")

// NewTokenIssuer creates an issuer. ttl is the lifetime of issued tokens.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the session and its expiry.
// POST: Subject is the account ID; Email and Role ride as private claims
func (ti *TokenIssuer) Issue(s Session) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)
	claims := Claims{
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fitpro",
			Subject:   s.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a token and returns the session it carries.
// INVARIANT: Only HS256 tokens signed with the issuer's secret are accepted
func (ti *TokenIssuer) Parse(raw string) (Session, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return Session{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return Session{}, errors.New("token is not valid")
	}
	var created time.Time
	if claims.IssuedAt != nil {
		created = claims.IssuedAt.Time
	}
	return Session{
		AccountID: claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		CreatedAt: created,
	}, nil
}
