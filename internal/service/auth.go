package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/pkg/utils"
)

const usernameMax = 150

func badRefresh() error { return domain.NewValidationError("refresh", "token is invalid or expired") }

type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
	jwt    *auth.JWTer
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(users domain.UserRepository, tokens domain.TokenRepository, jwter *auth.JWTer, l *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, jwt: jwter, log: l, now: time.Now}
}

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

type LoginResult struct {
	Access   string
	Refresh  string
	UserID   uint
	Username string
}

// Register creates a regular account. Privileged roles cannot be self-assigned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	verr := &domain.ValidationError{}
	switch {
	case username == "":
		verr.Add("username", "this field is required")
	case len(username) > usernameMax:
		verr.Add("username", "ensure this field has no more than 150 characters")
	}
	if in.Password == "" {
		verr.Add("password", "this field is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			verr.Add("email", "enter a valid email address")
		}
	}
	if r := strings.ToLower(strings.TrimSpace(in.Role)); r != "" && r != auth.RoleUser {
		verr.Add("role", "cannot be self-assigned")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Username: username, Email: email, PasswordHash: hash, IsActive: true}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("username", "a user with that username already exists")
		}
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(username) == "" {
		verr.Add("username", "this field is required")
	}
	if password == "" {
		verr.Add("password", "this field is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		loginTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !utils.CheckPassword(password, u.PasswordHash) {
		loginTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrUnauthorized
	}

	pair, err := s.jwt.IssuePair(u.ID, u.Role())
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Store(ctx, &domain.RefreshToken{
		JTI:       pair.RefreshJTI,
		UserID:    u.ID,
		TokenHash: auth.HashToken(pair.Refresh),
		ExpiresAt: pair.RefreshExp,
	}); err != nil {
		return nil, err
	}
	loginTotal.WithLabelValues("ok").Inc()
	return &LoginResult{Access: pair.Access, Refresh: pair.Refresh, UserID: u.ID, Username: u.Username}, nil
}

// checkRefresh validates a refresh token against its signature and the ledger.
func (s *AuthService) checkRefresh(ctx context.Context, raw string) (*auth.Claims, *domain.RefreshToken, error) {
	claims, err := s.jwt.Parse(raw, auth.RefreshToken)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	rec, err := s.tokens.FindByJTI(ctx, claims.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, nil, err
	}
	if rec.Revoked() || rec.TokenHash != auth.HashToken(raw) {
		return nil, nil, domain.ErrUnauthorized
	}
	return claims, rec, nil
}

// Refresh returns a new access token. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", domain.NewValidationError("refresh", "this field is required")
	}
	_, rec, err := s.checkRefresh(ctx, raw)
	if err != nil {
		return "", err
	}
	u, err := s.users.FindByID(ctx, rec.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if !u.IsActive {
		return "", domain.ErrUnauthorized
	}
	access, _, err := s.jwt.IssueAccess(u.ID, u.Role())
	return access, err
}

// Verify accepts either token type; refresh tokens must also be live in the ledger.
func (s *AuthService) Verify(ctx context.Context, raw string) error {
	if raw == "" {
		return domain.NewValidationError("token", "this field is required")
	}
	claims, err := s.jwt.Parse(raw, "")
	if err != nil {
		return domain.ErrUnauthorized
	}
	if claims.Type == auth.RefreshToken {
		_, _, err := s.checkRefresh(ctx, raw)
		return err
	}
	return nil
}

// Logout revokes the caller's refresh token. Every way the token can be bad
// yields the same validation error.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity, raw string) error {
	if raw == "" {
		return domain.NewValidationError("refresh", "this field is required")
	}
	_, rec, err := s.checkRefresh(ctx, raw)
	if errors.Is(err, domain.ErrUnauthorized) {
		return badRefresh()
	}
	if err != nil {
		return err
	}
	if rec.UserID != id.UserID {
		return badRefresh()
	}
	if err := s.tokens.Revoke(ctx, rec.JTI, s.now()); err != nil {
		return err
	}
	tokensRevoked.Inc()
	s.log.Info("refresh token revoked", zap.Uint("user_id", id.UserID))
	return nil
}

func (s *AuthService) Me(ctx context.Context, id auth.Identity) (*domain.User, error) {
	return s.users.FindByID(ctx, id.UserID)
}
