package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/edunews/internal/domain"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenType distinguishes access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenClaims is the payload carried by every issued token.
type TokenClaims struct {
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id encoded in the subject claim.
func (c *TokenClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenPair is returned by signup, login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and validates HS256-signed access and refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithTTLs overrides the default token lifetimes. Non-positive values keep
// the defaults.
func WithTTLs(access, refresh time.Duration) TokenOption {
	return func(s *TokenService) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService creates a new TokenService signing with secret.
func NewTokenService(secret string, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, TokenAccess, s.accessTTL)
}

func (s *TokenService) IssueRefresh(userID int64) (string, error) {
	return s.issue(userID, TokenRefresh, s.refreshTTL)
}

// IssuePair issues a fresh access and refresh token for userID.
func (s *TokenService) IssuePair(userID int64) (TokenPair, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefresh(userID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) issue(userID int64, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of tokenString and checks that it
// is of the expected type. Failures are domain.ErrTokenMalformed,
// domain.ErrTokenExpired or domain.ErrTokenWrongType.
func (s *TokenService) Decode(tokenString string, expected TokenType) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenMalformed
	}
	if !token.Valid {
		return nil, domain.ErrTokenMalformed
	}

	if _, err := claims.UserID(); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	if claims.Type != expected {
		return nil, domain.ErrTokenWrongType
	}
	return claims, nil
}
