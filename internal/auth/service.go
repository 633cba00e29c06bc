package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "linkbird-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = time.Hour

// Claims represents the session token claims. The subject is the user id
// assigned by the identity provider.
type Claims struct {
	Email string `json:"email,omitempty" example:"ann@example.com"`
	Name  string `json:"name,omitempty" example:"Ann Lee"`
	jwt.RegisteredClaims
}

// UserID returns the id of the authenticated user
func (c *Claims) UserID() string {
	return c.Subject
}

// SessionService verifies HS256 session tokens shared with the identity provider
type SessionService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSessionService creates a session service
func NewSessionService(secret, issuer string) (*SessionService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	return &SessionService{secret: []byte(secret), issuer: issuer, ttl: defaultTokenTTL}, nil
}

// IssueToken creates a signed session token. Production sessions are issued by
// the identity provider; this is used by tests and local tooling.
func (s *SessionService) IssueToken(userID, email string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a session token and returns its claims
func (s *SessionService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAuthenticationError("session expired")
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidSession
	}
	return claims, nil
}
