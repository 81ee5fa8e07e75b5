package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultResetTTL es la vigencia del token; el email dice "1 hour".
const DefaultResetTTL = time.Hour

const resetPurpose = "password_reset"

var ErrInvalidToken = errors.New("invalid_reset_token")

// JWTMinter firma tokens HS256 con un secreto compartido con el frontend de reset.
type JWTMinter struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTMinter crea el minter. ttl <= 0 usa DefaultResetTTL.
func NewJWTMinter(secret, issuer string, ttl time.Duration) (*JWTMinter, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &JWTMinter{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Mint implementa Minter.
func (m *JWTMinter) Mint(_ context.Context, memberNumber string) (string, error) {
	now := m.now().UTC()
	claims := jwtv5.MapClaims{
		"sub": memberNumber,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
		"jti": uuid.NewString(),
		"pur": resetPurpose,
	}
	if m.issuer != "" {
		claims["iss"] = m.issuer
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tk.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// Verify valida firma, vigencia y propósito; retorna el member number.
func (m *JWTMinter) Verify(raw string) (string, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(m.now),
		jwtv5.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(m.issuer))
	}
	tok, err := jwtv5.Parse(raw, func(*jwtv5.Token) (any, error) { return m.secret, nil }, opts...)
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if pur, _ := claims["pur"].(string); pur != resetPurpose {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
