package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomhub/internal/core/cache"
	"roomhub/internal/domain"
)

const catalogPrefix = "catalog:"

// CatalogService serves the public tourism catalog through the read cache and
// takes admin writes, which drop every cached catalog key.
type CatalogService struct {
	repo  domain.CatalogRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCatalogService(r domain.CatalogRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CatalogService {
	return &CatalogService{repo: r, cache: c, ttl: ttl, log: l}
}

func cached[T any](s *CatalogService, ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, catalogPrefix+key, s.ttl, load)
}

// detailID rejects malformed ids as not found.
func detailID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("catalog id %q: %w", id, domain.ErrNotFound)
	}
	return u.String(), nil
}

func filterID(field, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", domain.NewValidationError(field, "must be a valid UUID")
	}
	return u.String(), nil
}

func (s *CatalogService) Cities(ctx context.Context) ([]domain.City, error) {
	return cached(s, ctx, "cities", s.repo.ListCities)
}

func (s *CatalogService) City(ctx context.Context, id string) (*domain.City, error) {
	id, err := detailID(id)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "city:"+id, func(ctx context.Context) (*domain.City, error) { return s.repo.GetCity(ctx, id) })
}

func (s *CatalogService) TourismList(ctx context.Context, cityID string) ([]domain.Tourism, error) {
	cityID, err := filterID("city_id", cityID)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "tourism?city="+cityID, func(ctx context.Context) ([]domain.Tourism, error) {
		return s.repo.ListTourism(ctx, cityID)
	})
}

func (s *CatalogService) Tourism(ctx context.Context, id string) (*domain.Tourism, error) {
	id, err := detailID(id)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "tourism:"+id, func(ctx context.Context) (*domain.Tourism, error) { return s.repo.GetTourism(ctx, id) })
}

func (s *CatalogService) TripPlanners(ctx context.Context, tourismID string) ([]domain.TripPlanner, error) {
	tourismID, err := filterID("tourism_id", tourismID)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "trip?tourism="+tourismID, func(ctx context.Context) ([]domain.TripPlanner, error) {
		return s.repo.ListTripPlanners(ctx, tourismID)
	})
}

func (s *CatalogService) TripPlanner(ctx context.Context, id string) (*domain.TripPlanner, error) {
	id, err := detailID(id)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "trip:"+id, func(ctx context.Context) (*domain.TripPlanner, error) { return s.repo.GetTripPlanner(ctx, id) })
}

func (s *CatalogService) Cultures(ctx context.Context) ([]domain.CultureAndTradition, error) {
	return cached(s, ctx, "culture", s.repo.ListCultures)
}

func (s *CatalogService) Culture(ctx context.Context, id string) (*domain.CultureAndTradition, error) {
	id, err := detailID(id)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "culture:"+id, func(ctx context.Context) (*domain.CultureAndTradition, error) {
		return s.repo.GetCulture(ctx, id)
	})
}

func (s *CatalogService) Foods(ctx context.Context) ([]domain.Food, error) {
	return cached(s, ctx, "food", s.repo.ListFoods)
}

func (s *CatalogService) Food(ctx context.Context, id string) (*domain.Food, error) {
	id, err := detailID(id)
	if err != nil {
		return nil, err
	}
	return cached(s, ctx, "food:"+id, func(ctx context.Context) (*domain.Food, error) { return s.repo.GetFood(ctx, id) })
}

// ---- admin writes ----

type CityInput struct {
	Name      string
	Thumbnail string
}

type TourismInput struct {
	CityID   string
	Name     string
	Image    string
	About    string
	History  string
	Location string
}

type TripPlannerInput struct {
	TourismID         string
	Name              string
	Banner            string
	ContactPersonName string
	Mobile            string
}

// EntryInput is shared by culture and food entries.
type EntryInput struct {
	Name    string
	Image   string
	About   string
	History string
}

func checkText(verr *domain.ValidationError, field, v string, max int) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		verr.Add(field, "this field is required")
	case max > 0 && utf8.RuneCountInString(v) > max:
		verr.Add(field, fmt.Sprintf("ensure this field has no more than %d characters", max))
	}
	return v
}

func checkName(verr *domain.ValidationError, name string, max int) string {
	return checkText(verr, "name", name, max)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, catalogPrefix); err != nil {
		s.log.Warn("catalog cache invalidation", zap.Error(err))
	}
}

func (s *CatalogService) create(ctx context.Context, m any) error {
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// parent resolves a required parent id, reporting problems against field.
func parent(ctx context.Context, field, id string, get func(context.Context, string) error) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", domain.NewValidationError(field, "must be a valid UUID")
	}
	if err := get(ctx, u.String()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NewValidationError(field, "invalid pk - object does not exist")
		}
		return "", err
	}
	return u.String(), nil
}

func (s *CatalogService) CreateCity(ctx context.Context, in CityInput) (*domain.City, error) {
	verr := &domain.ValidationError{}
	c := &domain.City{Name: checkName(verr, in.Name, domain.CatalogNameMax), Thumbnail: strings.TrimSpace(in.Thumbnail)}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return c, s.create(ctx, c)
}

func (s *CatalogService) CreateTourism(ctx context.Context, in TourismInput) (*domain.Tourism, error) {
	verr := &domain.ValidationError{}
	t := &domain.Tourism{
		Name:     checkName(verr, in.Name, domain.CatalogNameMax),
		Image:    strings.TrimSpace(in.Image),
		About:    checkText(verr, "about", in.About, 0),
		History:  in.History,
		Location: checkText(verr, "location", in.Location, 0),
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	cityID, err := parent(ctx, "city_id", in.CityID, func(ctx context.Context, id string) error {
		_, err := s.repo.GetCity(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	t.CityID = cityID
	return t, s.create(ctx, t)
}

func (s *CatalogService) CreateTripPlanner(ctx context.Context, in TripPlannerInput) (*domain.TripPlanner, error) {
	verr := &domain.ValidationError{}
	p := &domain.TripPlanner{
		Name:              checkName(verr, in.Name, domain.CatalogNameMax),
		Banner:            strings.TrimSpace(in.Banner),
		ContactPersonName: checkText(verr, "contact_person_name", in.ContactPersonName, domain.CatalogNameMax),
		Mobile:            checkText(verr, "mobile", in.Mobile, 15),
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	tourismID, err := parent(ctx, "tourism_id", in.TourismID, func(ctx context.Context, id string) error {
		_, err := s.repo.GetTourism(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.TourismID = tourismID
	return p, s.create(ctx, p)
}

func (s *CatalogService) CreateCulture(ctx context.Context, in EntryInput) (*domain.CultureAndTradition, error) {
	verr := &domain.ValidationError{}
	c := &domain.CultureAndTradition{
		Name:    checkName(verr, in.Name, domain.CatalogNameMax),
		Image:   strings.TrimSpace(in.Image),
		About:   checkText(verr, "about", in.About, 0),
		History: in.History,
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return c, s.create(ctx, c)
}

func (s *CatalogService) CreateFood(ctx context.Context, in EntryInput) (*domain.Food, error) {
	verr := &domain.ValidationError{}
	f := &domain.Food{Name: checkName(verr, in.Name, domain.CatalogNameMax), Image: strings.TrimSpace(in.Image), About: in.About, History: in.History}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return f, s.create(ctx, f)
}

type CatalogKind string

const (
	KindCity        CatalogKind = "city"
	KindTourism     CatalogKind = "tourism"
	KindTripPlanner CatalogKind = "trip-planner"
	KindCulture     CatalogKind = "culture"
	KindFood        CatalogKind = "food"
)

// Delete removes one catalog entry and everything below it.
func (s *CatalogService) Delete(ctx context.Context, kind CatalogKind, id string) error {
	id, err := detailID(id)
	if err != nil {
		return err
	}
	var del func(context.Context, string) error
	switch kind {
	case KindCity:
		del = s.repo.DeleteCity
	case KindTourism:
		del = s.repo.DeleteTourism
	case KindTripPlanner:
		del = s.repo.DeleteTripPlanner
	case KindCulture:
		del = s.repo.DeleteCulture
	case KindFood:
		del = s.repo.DeleteFood
	default:
		return fmt.Errorf("catalog kind %q: %w", kind, domain.ErrNotFound)
	}
	if err := del(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("catalog entry deleted", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}
