package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomhub/internal/domain"
)

// DistrictRepo owns districts, their cities and locations. Rooms that point at a
// removed district or city keep existing with the reference cleared.
type DistrictRepo struct{ db *gorm.DB }

func NewDistrictRepo(db *gorm.DB) *DistrictRepo { return &DistrictRepo{db: db} }

func (r *DistrictRepo) ListDistricts(ctx context.Context) ([]domain.District, error) {
	return findAll[domain.District](ctx, r.db, "list districts", func(q *gorm.DB) *gorm.DB {
		return q.Preload("Cities", func(q *gorm.DB) *gorm.DB { return q.Order("id ASC") }).Order("id ASC")
	})
}

func (r *DistrictRepo) GetDistrict(ctx context.Context, id uint) (*domain.District, error) {
	return findOne[domain.District](ctx, r.db, "get district", id, "Cities")
}

func (r *DistrictRepo) GetCity(ctx context.Context, id uint) (*domain.DistrictCity, error) {
	return findOne[domain.DistrictCity](ctx, r.db, "get district city", id)
}

func (r *DistrictRepo) ListLocations(ctx context.Context, districtID uint) ([]domain.Location, error) {
	return findAll[domain.Location](ctx, r.db, "list locations", func(q *gorm.DB) *gorm.DB {
		return q.Where("district_id = ?", districtID).Order("id ASC")
	})
}

func (r *DistrictRepo) Create(ctx context.Context, m any) error {
	return translate("create district entry", r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error)
}

func (r *DistrictRepo) DeleteDistrict(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Room{}).Where("district_id = ?", id).
			Updates(map[string]any{"district_id": nil, "city_id": nil}).Error; err != nil {
			return translate("delete district", err)
		}
		if err := tx.Where("district_id = ?", id).Delete(&domain.Location{}).Error; err != nil {
			return translate("delete district", err)
		}
		if err := tx.Where("district_id = ?", id).Delete(&domain.DistrictCity{}).Error; err != nil {
			return translate("delete district", err)
		}
		return deleteByID[domain.District](tx, "delete district", id)
	})
}

func (r *DistrictRepo) DeleteCity(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Room{}).Where("city_id = ?", id).Update("city_id", nil).Error; err != nil {
			return translate("delete district city", err)
		}
		if err := tx.Where("city_id = ?", id).Delete(&domain.Location{}).Error; err != nil {
			return translate("delete district city", err)
		}
		return deleteByID[domain.DistrictCity](tx, "delete district city", id)
	})
}

func (r *DistrictRepo) DeleteLocation(ctx context.Context, id uint) error {
	return deleteByID[domain.Location](r.db.WithContext(ctx), "delete location", id)
}
