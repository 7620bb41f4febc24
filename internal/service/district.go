package service

import (
	"context"
	"errors"

	"roomhub/internal/domain"
)

type DistrictService struct {
	repo domain.DistrictRepository
}

func NewDistrictService(r domain.DistrictRepository) *DistrictService { return &DistrictService{repo: r} }

func (s *DistrictService) List(ctx context.Context) ([]domain.District, error) {
	return s.repo.ListDistricts(ctx)
}

func (s *DistrictService) Locations(ctx context.Context, districtID uint) ([]domain.Location, error) {
	if _, err := s.repo.GetDistrict(ctx, districtID); err != nil {
		return nil, err
	}
	return s.repo.ListLocations(ctx, districtID)
}

func (s *DistrictService) CreateDistrict(ctx context.Context, name string) (*domain.District, error) {
	verr := &domain.ValidationError{}
	d := &domain.District{Name: checkName(verr, name, 100)}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("name", "district with this name already exists")
		}
		return nil, err
	}
	d.Cities = []domain.DistrictCity{}
	return d, nil
}

func (s *DistrictService) CreateCity(ctx context.Context, districtID uint, name string) (*domain.DistrictCity, error) {
	verr := &domain.ValidationError{}
	c := &domain.DistrictCity{DistrictID: districtID, Name: checkName(verr, name, 100)}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetDistrict(ctx, districtID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *DistrictService) CreateLocation(ctx context.Context, districtID, cityID uint, name string) (*domain.Location, error) {
	verr := &domain.ValidationError{}
	l := &domain.Location{DistrictID: districtID, CityID: cityID, Name: checkName(verr, name, 100)}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetDistrict(ctx, districtID); err != nil {
		return nil, err
	}
	city, err := s.repo.GetCity(ctx, cityID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && city.DistrictID != districtID) {
		return nil, domain.NewValidationError("city_id", "city does not belong to this district")
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *DistrictService) DeleteDistrict(ctx context.Context, id uint) error {
	return s.repo.DeleteDistrict(ctx, id)
}

func (s *DistrictService) DeleteCity(ctx context.Context, id uint) error {
	return s.repo.DeleteCity(ctx, id)
}

func (s *DistrictService) DeleteLocation(ctx context.Context, id uint) error {
	return s.repo.DeleteLocation(ctx, id)
}
