package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomhub/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

func findAll[T any](ctx context.Context, db *gorm.DB, op string, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	out := make([]T, 0)
	q := db.WithContext(ctx)
	if scope != nil {
		q = scope(q)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(op, err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, db *gorm.DB, op string, id any, preload ...string) (*T, error) {
	var m T
	q := db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(op, err)
	}
	return &m, nil
}

// deleteByID reports ErrNotFound when nothing matched.
func deleteByID[T any](tx *gorm.DB, op string, id any) error {
	var m T
	res := tx.Where("id = ?", id).Delete(&m)
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(op, gorm.ErrRecordNotFound)
	}
	return nil
}

func byName(q *gorm.DB) *gorm.DB { return q.Order("name ASC") }

func (r *CatalogRepo) ListCities(ctx context.Context) ([]domain.City, error) {
	return findAll[domain.City](ctx, r.db, "list cities", byName)
}

func (r *CatalogRepo) GetCity(ctx context.Context, id string) (*domain.City, error) {
	return findOne[domain.City](ctx, r.db, "get city", id)
}

func (r *CatalogRepo) ListTourism(ctx context.Context, cityID string) ([]domain.Tourism, error) {
	return findAll[domain.Tourism](ctx, r.db, "list tourism", func(q *gorm.DB) *gorm.DB {
		q = q.Preload("City").Order("name ASC")
		if cityID != "" {
			q = q.Where("city_id = ?", cityID)
		}
		return q
	})
}

func (r *CatalogRepo) GetTourism(ctx context.Context, id string) (*domain.Tourism, error) {
	return findOne[domain.Tourism](ctx, r.db, "get tourism", id, "City", "TripPlanners")
}

func (r *CatalogRepo) ListTripPlanners(ctx context.Context, tourismID string) ([]domain.TripPlanner, error) {
	return findAll[domain.TripPlanner](ctx, r.db, "list trip planners", func(q *gorm.DB) *gorm.DB {
		q = q.Order("name ASC")
		if tourismID != "" {
			q = q.Where("tourism_id = ?", tourismID)
		}
		return q
	})
}

func (r *CatalogRepo) GetTripPlanner(ctx context.Context, id string) (*domain.TripPlanner, error) {
	return findOne[domain.TripPlanner](ctx, r.db, "get trip planner", id)
}

func (r *CatalogRepo) ListCultures(ctx context.Context) ([]domain.CultureAndTradition, error) {
	return findAll[domain.CultureAndTradition](ctx, r.db, "list cultures", byName)
}

func (r *CatalogRepo) GetCulture(ctx context.Context, id string) (*domain.CultureAndTradition, error) {
	return findOne[domain.CultureAndTradition](ctx, r.db, "get culture", id)
}

func (r *CatalogRepo) ListFoods(ctx context.Context) ([]domain.Food, error) {
	return findAll[domain.Food](ctx, r.db, "list foods", byName)
}

func (r *CatalogRepo) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	return findOne[domain.Food](ctx, r.db, "get food", id)
}

// Create inserts a catalog row; m is one of the catalog entity pointers.
func (r *CatalogRepo) Create(ctx context.Context, m any) error {
	return translate("create catalog entry", r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error)
}

func (r *CatalogRepo) DeleteCity(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&domain.Tourism{}).Select("id").Where("city_id = ?", id)
		if err := tx.Where("tourism_id IN (?)", sub).Delete(&domain.TripPlanner{}).Error; err != nil {
			return translate("delete city", err)
		}
		if err := tx.Where("city_id = ?", id).Delete(&domain.Tourism{}).Error; err != nil {
			return translate("delete city", err)
		}
		return deleteByID[domain.City](tx, "delete city", id)
	})
}

func (r *CatalogRepo) DeleteTourism(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tourism_id = ?", id).Delete(&domain.TripPlanner{}).Error; err != nil {
			return translate("delete tourism", err)
		}
		return deleteByID[domain.Tourism](tx, "delete tourism", id)
	})
}

func (r *CatalogRepo) DeleteTripPlanner(ctx context.Context, id string) error {
	return deleteByID[domain.TripPlanner](r.db.WithContext(ctx), "delete trip planner", id)
}

func (r *CatalogRepo) DeleteCulture(ctx context.Context, id string) error {
	return deleteByID[domain.CultureAndTradition](r.db.WithContext(ctx), "delete culture", id)
}

func (r *CatalogRepo) DeleteFood(ctx context.Context, id string) error {
	return deleteByID[domain.Food](r.db.WithContext(ctx), "delete food", id)
}
