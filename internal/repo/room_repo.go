package repo

import (
	"context"

	"gorm.io/gorm"

	"roomhub/internal/domain"
)

type RoomRepo struct {
	Owned[domain.Room]
}

func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{Owned[domain.Room]{db: db, order: "id ASC", preload: []string{"Images"}}}
}

// Atomic runs fn against a RoomRepo bound to a single transaction.
func (r *RoomRepo) Atomic(ctx context.Context, fn func(domain.RoomRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRoomRepo(tx))
	})
}

// Places reads districts and cities through the same connection, so checks
// made inside Atomic see the transaction.
func (r *RoomRepo) Places() domain.DistrictRepository { return NewDistrictRepo(r.db) }

func (r *RoomRepo) DeleteOwned(ctx context.Context, owner, id uint) (*domain.Room, error) {
	var room *domain.Room
	err := r.Atomic(ctx, func(tr domain.RoomRepository) error {
		t := tr.(*RoomRepo)
		got, err := t.GetOwned(ctx, owner, id)
		if err != nil {
			return err
		}
		if err := t.db.WithContext(ctx).Where("room_id = ?", got.ID).Delete(&domain.RoomImage{}).Error; err != nil {
			return translate("delete room images", err)
		}
		if err := t.deleteOwned(ctx, owner, id); err != nil {
			return err
		}
		room = got
		return nil
	})
	return room, err
}
