package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Owned is a gorm store whose reads and deletes are always filtered by user_id.
type Owned[T any] struct {
	db      *gorm.DB
	order   string
	preload []string
}

func (s Owned[T]) scoped(ctx context.Context, owner uint) *gorm.DB {
	q := s.db.WithContext(ctx).Where("user_id = ?", owner)
	for _, p := range s.preload {
		q = q.Preload(p)
	}
	return q
}

func (s Owned[T]) ListByOwner(ctx context.Context, owner uint) ([]T, error) {
	out := make([]T, 0)
	q := s.scoped(ctx, owner)
	if s.order != "" {
		q = q.Order(s.order)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate("list", err)
	}
	return out, nil
}

func (s Owned[T]) GetOwned(ctx context.Context, owner, id uint) (*T, error) {
	var m T
	if err := s.scoped(ctx, owner).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate("get", err)
	}
	return &m, nil
}

func (s Owned[T]) Create(ctx context.Context, m *T) error {
	return translate("create", s.db.WithContext(ctx).Create(m).Error)
}

// GetForUpdate is GetOwned with a row lock where the dialect has one.
// Call it inside Atomic.
func (s Owned[T]) GetForUpdate(ctx context.Context, owner, id uint) (*T, error) {
	var m T
	q := s.scoped(ctx, owner)
	if s.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate("get for update", err)
	}
	return &m, nil
}

// Update writes every column of m to the row (id, owner). Associations are
// left alone. A row that is gone or owned by someone else is ErrNotFound,
// never re-inserted.
func (s Owned[T]) Update(ctx context.Context, owner, id uint, m *T) error {
	db := s.db.WithContext(ctx)
	res := db.Model(m).Where("id = ? AND user_id = ?", id, owner).
		Select("*").Omit(clause.Associations).Updates(m)
	if res.Error != nil {
		return translate("update", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// mysql reports 0 for a matched row whose values did not change.
	var n int64
	if err := db.Model(new(T)).Where("id = ? AND user_id = ?", id, owner).Count(&n).Error; err != nil {
		return translate("update", err)
	}
	if n == 0 {
		return translate("update", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s Owned[T]) deleteOwned(ctx context.Context, owner, id uint) error {
	var m T
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Delete(&m)
	if res.Error != nil {
		return translate("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete", gorm.ErrRecordNotFound)
	}
	return nil
}
