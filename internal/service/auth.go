package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/msomdec/edunews/internal/domain"
)

const minPasswordLength = 8

// AuthService handles signup, login, token refresh and request authorization.
type AuthService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	tokens *TokenService

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup creates a non-admin account and returns a token pair for it.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: name, email, and password are required", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, TokenPair{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, TokenPair{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, TokenPair{}, fmt.Errorf("check email: %w", err)
	}

	user, err := s.createUser(ctx, name, email, password, false)
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// Login verifies credentials. Unknown email and wrong password both return
// domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Spend the same bcrypt work as a wrong password.
			s.hasher.Verify(password, s.dummyHash())
			return TokenPair{}, domain.ErrUnauthorized
		}
		return TokenPair{}, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return TokenPair{}, domain.ErrUnauthorized
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. The old
// refresh token is not revoked and stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	user, err := s.resolve(ctx, refreshToken, TokenRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// Authorize resolves an access token to its user. It returns
// domain.ErrForbidden when requireAdmin is set and the user is not an admin.
func (s *AuthService) Authorize(ctx context.Context, accessToken string, requireAdmin bool) (*domain.User, error) {
	user, err := s.resolve(ctx, accessToken, TokenAccess)
	if err != nil {
		return nil, err
	}
	if requireAdmin && !user.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// EnsureAdmin creates the configured administrator account if no user with
// that email exists yet. An existing admin is left untouched; an existing
// non-admin with that email is a domain.ErrConflict.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin {
			return nil, fmt.Errorf("%w: %s belongs to a non-admin account", domain.ErrConflict, email)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check admin: %w", err)
	}

	user, err := s.createUser(ctx, name, email, password, true)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// Another instance created it concurrently.
		return s.EnsureAdmin(ctx, name, email, password)
	}
	return user, err
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, admin bool) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      admin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// dummyHash returns a digest at the configured cost that no password
// matches, for equalizing login timing on unknown emails.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("edunews-no-such-user")
		if err != nil {
			slog.Error("hash dummy password", "error", err)
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *AuthService) resolve(ctx context.Context, token string, typ TokenType) (*domain.User, error) {
	claims, err := s.tokens.Decode(token, typ)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrTokenMalformed
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
