package repo

import (
	"context"

	"gorm.io/gorm"

	"roomhub/internal/domain"
)

type TodoRepo struct{ Owned[domain.Todo] }

func NewTodoRepo(db *gorm.DB) *TodoRepo {
	return &TodoRepo{Owned[domain.Todo]{db: db, order: "created_at DESC, id DESC"}}
}

// Atomic runs fn against a TodoRepo bound to a single transaction.
func (r *TodoRepo) Atomic(ctx context.Context, fn func(domain.TodoRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTodoRepo(tx))
	})
}

func (r *TodoRepo) DeleteOwned(ctx context.Context, owner, id uint) error {
	return r.deleteOwned(ctx, owner, id)
}
