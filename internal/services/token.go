package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is what a verified session token proves.
type SessionClaims struct {
	SubjectID string
	Email     string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies stateless HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

func (t *TokenIssuer) Issue(subjectID, email string) (string, error) {
	issuedAt := t.now()
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"email": email,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Verify(raw string) (*SessionClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &SessionClaims{SubjectID: sub, Email: email, ExpiresAt: exp.Time}, nil
}
