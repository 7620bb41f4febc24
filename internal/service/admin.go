package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/pkg/utils"
)

type AdminService struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewAdminService(users domain.UserRepository, tokens domain.TokenRepository, l *zap.Logger) *AdminService {
	return &AdminService{users: users, tokens: tokens, log: l, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, q, offset, limit)
}

// Ban deactivates a user and revokes their refresh tokens.
func (s *AdminService) Ban(ctx context.Context, actor auth.Identity, id uint) error {
	if actor.UserID == id {
		return domain.NewValidationError("id", "you cannot ban yourself")
	}
	if err := s.users.Deactivate(ctx, id, s.now()); err != nil {
		return err
	}
	s.log.Info("user banned", zap.Uint("user_id", id), zap.Uint("by", actor.UserID))
	return nil
}

func (s *AdminService) Promote(ctx context.Context, actor auth.Identity, id uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsStaff = true
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user promoted", zap.Uint("user_id", id), zap.Uint("by", actor.UserID))
	return u, nil
}

// PruneTokens drops ledger rows that are past their own expiry.
func (s *AdminService) PruneTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.PruneExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	tokensPruned.Add(float64(n))
	return n, nil
}

// EnsureAdmin creates the bootstrap account, or re-flags it as an active admin.
// An existing password is left untouched.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "this field is required")
	}
	u, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if password == "" {
			return nil, domain.NewValidationError("password", "this field is required")
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		u = &domain.User{Username: username, Email: email, PasswordHash: hash, IsStaff: true, IsSuperuser: true, IsActive: true}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		s.log.Info("bootstrap admin created", zap.String("username", username))
		return u, nil
	case err != nil:
		return nil, err
	}
	if u.IsStaff && u.IsSuperuser && u.IsActive {
		return u, nil
	}
	u.IsStaff, u.IsSuperuser, u.IsActive = true, true, true
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("bootstrap admin restored", zap.String("username", username))
	return u, nil
}
