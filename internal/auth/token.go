package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes how a token may be consumed. Every consumption
// site must check the type it expects; a mismatch is an invalid token.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenPayload is the decoded content of a verified token.
type TokenPayload struct {
	Subject   uint
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// TokenService issues and validates HS256-signed tokens. There is no
// revocation list: tokens stay valid until natural expiry.
type TokenService struct {
	secret []byte
	clock  Clock
}

func NewTokenService(secret string, clock Clock) *TokenService {
	if clock == nil {
		clock = SystemClock()
	}
	return &TokenService{secret: []byte(secret), clock: clock}
}

// IssueAccess creates a signed access token for the given subject id.
func (s *TokenService) IssueAccess(subject uint, ttl time.Duration) (string, error) {
	return s.issue(subject, TokenTypeAccess, ttl)
}

// IssueRefresh creates a signed refresh token for the given subject id.
func (s *TokenService) IssueRefresh(subject uint, ttl time.Duration) (string, error) {
	return s.issue(subject, TokenTypeRefresh, ttl)
}

func (s *TokenService) issue(subject uint, typ TokenType, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subject), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Type: string(typ),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", typ, err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the decoded payload.
// Expired tokens fail with ErrTokenExpired; anything else malformed, tampered
// or incomplete fails with ErrTokenInvalid. Callers still have to check the
// payload type against the expected use.
func (s *TokenService) Validate(tokenString string) (*TokenPayload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	subject, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", ErrTokenInvalid)
	}

	typ := TokenType(claims.Type)
	if typ != TokenTypeAccess && typ != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: missing or unknown type", ErrTokenInvalid)
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing timestamps", ErrTokenInvalid)
	}

	return &TokenPayload{
		Subject:   uint(subject),
		Type:      typ,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
