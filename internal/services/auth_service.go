package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/auth"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
	"github.com/kyotenhq/kyoten-backend/internal/models"
	"github.com/kyotenhq/kyoten-backend/internal/repository"
)

// AuthService implements the login, refresh, and password reset flows on top
// of the token service. Credential failures and unknown accounts produce the
// same unauthorized error so the endpoint cannot be used to probe for
// registered emails; only a valid password against a disabled account leaks
// the account's existence, as forbidden.
type AuthService struct {
	db     repository.DB
	tokens *auth.TokenService
	hasher auth.PasswordHasher
	clock  auth.Clock

	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewAuthService(db repository.DB, tokens *auth.TokenService, hasher auth.PasswordHasher, clock auth.Clock, accessTTL, refreshTTL, resetTTL time.Duration) *AuthService {
	if clock == nil {
		clock = auth.SystemClock()
	}
	return &AuthService{
		db:         db,
		tokens:     tokens,
		hasher:     hasher,
		clock:      clock,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// Login verifies the credentials and returns a fresh token pair. Emails are
// stored lowercased, so the lookup normalizes the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.db.Users().GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("incorrect email or password")
		}
		return nil, err
	}
	if !s.hasher.Verify(user.HashedPassword, password) {
		return nil, apperr.Unauthorized("incorrect email or password")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("inactive user")
	}

	now := s.clock.Now()
	user.LastLogin = &now
	user.Role = nil
	user.Locations = nil
	if err := s.db.Users().Update(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational.
		slog.WarnContext(ctx, "failed to record last login", "user_id", user.ID, "error", err)
	}

	return s.tokenPair(user.ID)
}

// Register creates a regular active account with no role; it picks up the
// self-scoped default permissions until an administrator assigns one.
func (s *AuthService) Register(ctx context.Context, in dto.RegisterRequest) (*models.User, error) {
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          strings.ToLower(in.Email),
		HashedPassword: hashed,
		FullName:       in.FullName,
		IsActive:       true,
	}
	if err := s.db.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("email '%s' is already registered", user.Email)
		}
		return nil, err
	}
	return user, nil
}

// Refresh exchanges a valid refresh token for a new token pair. Access
// tokens are rejected here even though they verify with the same key.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	payload, err := s.tokens.Validate(refreshToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized("invalid refresh token"), err)
	}
	if payload.Type != auth.TokenTypeRefresh {
		return nil, apperr.Unauthorized("invalid token type")
	}

	user, err := s.db.Users().Get(ctx, payload.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("inactive user")
	}

	return s.tokenPair(user.ID)
}

// RequestPasswordReset issues a short-lived reset token for the account.
// Unknown emails return an empty token and no error, so the caller can
// always answer with the same message.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.db.Users().GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	// Reset tokens reuse the access type with a shorter expiry; there is
	// no dedicated reset token type.
	return s.tokens.IssueAccess(user.ID, s.resetTTL)
}

// ConfirmPasswordReset sets a new password for the account named by a reset
// token.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	payload, err := s.tokens.Validate(token)
	if err != nil {
		return apperr.Wrap(apperr.Unauthorized("invalid reset token"), err)
	}
	if payload.Type != auth.TokenTypeAccess {
		return apperr.Unauthorized("invalid reset token")
	}

	user, err := s.db.Users().Get(ctx, payload.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Unauthorized("invalid reset token")
		}
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.Role = nil
	user.Locations = nil
	return s.db.Users().Update(ctx, user)
}

func (s *AuthService) tokenPair(userID uint) (*dto.TokenResponse, error) {
	access, err := s.tokens.IssueAccess(userID, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(userID, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
