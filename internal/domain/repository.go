package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	// Deactivate marks the user inactive and revokes every refresh token they hold.
	Deactivate(ctx context.Context, id uint, at time.Time) error
}

type TokenRepository interface {
	Store(ctx context.Context, t *RefreshToken) error
	FindByJTI(ctx context.Context, jti string) (*RefreshToken, error)
	// Revoke is idempotent: an already revoked token keeps its first revoked_at.
	Revoke(ctx context.Context, jti string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID uint, at time.Time) (int64, error)
	PruneExpired(ctx context.Context, before time.Time) (int64, error)
}

// OwnedRepository is the owner-scoped store shared by Todo and Room.
// Rows owned by someone else behave exactly like missing rows.
type OwnedRepository[T any] interface {
	ListByOwner(ctx context.Context, owner uint) ([]T, error)
	GetOwned(ctx context.Context, owner, id uint) (*T, error)
	// GetForUpdate locks the row for the rest of the transaction.
	GetForUpdate(ctx context.Context, owner, id uint) (*T, error)
	Create(ctx context.Context, m *T) error
	// Update reports ErrNotFound when no row (id, owner) exists.
	Update(ctx context.Context, owner, id uint, m *T) error
}

type TodoRepository interface {
	OwnedRepository[Todo]
	DeleteOwned(ctx context.Context, owner, id uint) error
	Atomic(ctx context.Context, fn func(r TodoRepository) error) error
}

type RoomRepository interface {
	OwnedRepository[Room]
	// DeleteOwned removes the room and its image rows and returns what was removed.
	DeleteOwned(ctx context.Context, owner, id uint) (*Room, error)
	Atomic(ctx context.Context, fn func(r RoomRepository) error) error
	Places() DistrictRepository
}

type CatalogRepository interface {
	ListCities(ctx context.Context) ([]City, error)
	GetCity(ctx context.Context, id string) (*City, error)
	ListTourism(ctx context.Context, cityID string) ([]Tourism, error)
	GetTourism(ctx context.Context, id string) (*Tourism, error)
	ListTripPlanners(ctx context.Context, tourismID string) ([]TripPlanner, error)
	GetTripPlanner(ctx context.Context, id string) (*TripPlanner, error)
	ListCultures(ctx context.Context) ([]CultureAndTradition, error)
	GetCulture(ctx context.Context, id string) (*CultureAndTradition, error)
	ListFoods(ctx context.Context) ([]Food, error)
	GetFood(ctx context.Context, id string) (*Food, error)

	Create(ctx context.Context, m any) error
	DeleteCity(ctx context.Context, id string) error
	DeleteTourism(ctx context.Context, id string) error
	DeleteTripPlanner(ctx context.Context, id string) error
	DeleteCulture(ctx context.Context, id string) error
	DeleteFood(ctx context.Context, id string) error
}

type DistrictRepository interface {
	ListDistricts(ctx context.Context) ([]District, error)
	GetDistrict(ctx context.Context, id uint) (*District, error)
	GetCity(ctx context.Context, id uint) (*DistrictCity, error)
	ListLocations(ctx context.Context, districtID uint) ([]Location, error)

	Create(ctx context.Context, m any) error
	DeleteDistrict(ctx context.Context, id uint) error
	DeleteCity(ctx context.Context, id uint) error
	DeleteLocation(ctx context.Context, id uint) error
}
