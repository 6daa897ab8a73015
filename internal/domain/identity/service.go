package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	users  UserRepository
	issuer *auth.TokenIssuer
}

func NewService(users UserRepository, issuer *auth.TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Register creates a user. Password is optional: invited users set one later
// through the reset flow.
func (s *Service) Register(ctx context.Context, u *User, password string) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Name == "" {
		return httperr.Validation("name is required")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return httperr.Validation("a valid email is required")
	}
	if !validRoles[u.Role] {
		return httperr.Validation("invalid role: %s", u.Role)
	}

	if _, err := s.users.GetByEmail(ctx, u.Email); err == nil {
		return httperr.Conflict("email %s is already registered", u.Email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		h := string(hash)
		u.PasswordHash = &h
	}
	u.IsActive = true
	return s.users.Create(ctx, u)
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token is persisted on the user so rotation can invalidate old tokens.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, httperr.Validation("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !u.IsActive {
		return nil, nil, httperr.Validation("invalid credentials")
	}
	if u.PasswordHash == nil {
		return nil, nil, httperr.Validation("password not set for this account, use password reset")
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)) != nil {
		return nil, nil, httperr.Validation("invalid credentials")
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh rotates a refresh token. The presented token must match the one
// stored on the user, so each refresh invalidates its predecessor.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, httperr.Validation("invalid refresh token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, httperr.Validation("invalid refresh token")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return nil, httperr.Validation("invalid refresh token")
	}
	if u.RefreshToken == nil || *u.RefreshToken != refreshToken {
		return nil, httperr.Validation("refresh token has been revoked")
	}

	return s.issueTokens(ctx, u)
}

func (s *Service) issueTokens(ctx context.Context, u *User) (*TokenPair, error) {
	access, err := s.issuer.IssueAccess(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefresh(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, u.ID, &refresh); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueResetToken mints a short-lived token the named user can present to
// set a password. Delivery to the user is up to the caller.
func (s *Service) IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if !u.IsActive {
		return "", httperr.Validation("account is inactive")
	}
	return s.issuer.IssueReset(u.ID)
}

// ResetPassword sets a new password for the user named by a valid reset
// token. Invited users with no password yet use the same path.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return httperr.Validation("reset token is required")
	}
	if len(password) < 6 {
		return httperr.Validation("password must be at least 6 characters")
	}

	claims, err := s.issuer.VerifyReset(token)
	if err != nil {
		return httperr.Validation("invalid or expired reset token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return httperr.Validation("invalid or expired reset token")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil || !u.IsActive {
		return httperr.Validation("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, string(hash))
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.UpdateRefreshToken(ctx, userID, nil)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("user not found")
	}
	return u, err
}

func (s *Service) ListUsers(ctx context.Context, search, role, orderBy string, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, search, role, orderBy, limit, offset)
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	return s.users.SoftDelete(ctx, id)
}
