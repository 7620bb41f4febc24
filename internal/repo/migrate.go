package repo

import (
	"gorm.io/gorm"

	"roomhub/internal/domain"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&domain.User{}, &domain.RefreshToken{},
		&domain.Todo{},
		&domain.District{}, &domain.DistrictCity{}, &domain.Location{},
		&domain.Room{}, &domain.RoomImage{},
		&domain.City{}, &domain.Tourism{}, &domain.TripPlanner{},
		&domain.CultureAndTradition{}, &domain.Food{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
