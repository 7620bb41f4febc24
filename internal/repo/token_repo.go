package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomhub/internal/domain"
)

// TokenRepo is the refresh-token ledger. A token is honoured only while its row
// exists with revoked_at NULL.
type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Store(ctx context.Context, t *domain.RefreshToken) error {
	return translate("store token", r.db.WithContext(ctx).Create(t).Error)
}

func (r *TokenRepo) FindByJTI(ctx context.Context, jti string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	if err := r.db.WithContext(ctx).First(&t, "jti = ?", jti).Error; err != nil {
		return nil, translate("find token", err)
	}
	return &t, nil
}

func (r *TokenRepo) Revoke(ctx context.Context, jti string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", at)
	if res.Error != nil {
		return translate("revoke token", res.Error)
	}
	if res.RowsAffected == 0 {
		// already revoked is fine, unknown is not
		var n int64
		if err := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).Where("jti = ?", jti).Count(&n).Error; err != nil {
			return translate("revoke token", err)
		}
		if n == 0 {
			return translate("revoke token", gorm.ErrRecordNotFound)
		}
	}
	return nil
}

func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at)
	return res.RowsAffected, translate("revoke user tokens", res.Error)
}

func (r *TokenRepo) PruneExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&domain.RefreshToken{})
	return res.RowsAffected, translate("prune tokens", res.Error)
}
