package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/service"
	"roomhub/internal/transport/http/ez"
	resp "roomhub/internal/transport/http/response"
)

type cityOut struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

type tourismItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	City  string `json:"city"`
}

type tripPlannerOut struct {
	ID                string `json:"id"`
	Tourism           string `json:"tourism"`
	Name              string `json:"name"`
	Banner            string `json:"banner"`
	ContactPersonName string `json:"contact_person_name"`
	Mobile            string `json:"mobile"`
}

type tourismDetail struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Image       string           `json:"image"`
	About       string           `json:"about"`
	History     string           `json:"history"`
	Location    string           `json:"location"`
	City        string           `json:"city"`
	CityName    string           `json:"city_name"`
	TripPlanner []tripPlannerOut `json:"trip_planner"`
}

// entryOut is the shape of culture and food entries.
type entryOut struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	About   string `json:"about"`
	History string `json:"history"`
}

func toCity(c *domain.City) cityOut { return cityOut{ID: c.ID, Name: c.Name, Thumbnail: c.Thumbnail} }

func toTripPlanner(p *domain.TripPlanner) tripPlannerOut {
	return tripPlannerOut{
		ID:                p.ID,
		Tourism:           p.TourismID,
		Name:              p.Name,
		Banner:            p.Banner,
		ContactPersonName: p.ContactPersonName,
		Mobile:            p.Mobile,
	}
}

func toTourismDetail(t *domain.Tourism) tourismDetail {
	d := tourismDetail{
		ID:          t.ID,
		Name:        t.Name,
		Image:       t.Image,
		About:       t.About,
		History:     t.History,
		Location:    t.Location,
		City:        t.CityID,
		CityName:    t.City.Name,
		TripPlanner: make([]tripPlannerOut, 0, len(t.TripPlanners)),
	}
	for i := range t.TripPlanners {
		d.TripPlanner = append(d.TripPlanner, toTripPlanner(&t.TripPlanners[i]))
	}
	return d
}

func mapAll[T any, O any](rows []T, fn func(*T) O) []O {
	out := make([]O, 0, len(rows))
	for i := range rows {
		out = append(out, fn(&rows[i]))
	}
	return out
}

type tourismQ struct {
	CityID string `form:"city_id"`
}

type tripQ struct {
	TourismID string `form:"tourism_id"`
}

type cityIn struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

type tourismIn struct {
	CityID   string `json:"city_id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	About    string `json:"about"`
	History  string `json:"history"`
	Location string `json:"location"`
}

type tripPlannerIn struct {
	TourismID         string `json:"tourism_id"`
	Name              string `json:"name"`
	Banner            string `json:"banner"`
	ContactPersonName string `json:"contact_person_name"`
	Mobile            string `json:"mobile"`
}

type entryIn struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	About   string `json:"about"`
	History string `json:"history"`
}

func (in *entryIn) input() service.EntryInput {
	return service.EntryInput{Name: in.Name, Image: in.Image, About: in.About, History: in.History}
}

// Catalog is the public tourism catalog: anonymous reads on the API,
// creates and deletes on the admin server.
type Catalog struct {
	svc *service.CatalogService
}

func NewCatalog(s *service.CatalogService) *Catalog { return &Catalog{svc: s} }

func (h *Catalog) Priority() int { return 50 }

// listAction and getAction cover the read endpoints that take no filter.
func listAction[T any, O any](e ez.EZ, path string, load func(context.Context) ([]T, error), fn func(*T) O) {
	ez.Register(e, ez.Action[struct{}, resp.List[O]]{
		Method: http.MethodGet,
		Path:   path,
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (resp.List[O], error) {
			rows, err := load(c.Request.Context())
			if err != nil {
				return resp.List[O]{}, err
			}
			return resp.NewList(mapAll(rows, fn)), nil
		},
	})
}

func getAction[T any, O any](e ez.EZ, path string, load func(context.Context, string) (*T, error), fn func(*T) O) {
	ez.Register(e, ez.Action[struct{}, O]{
		Method: http.MethodGet,
		Path:   path,
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (O, error) {
			row, err := load(c.Request.Context(), c.Param("id"))
			if err != nil {
				var zero O
				return zero, err
			}
			return fn(row), nil
		},
	})
}

func (h *Catalog) MountAPI(public, _ ez.EZ) {
	toEntryC := func(c *domain.CultureAndTradition) entryOut {
		return entryOut{ID: c.ID, Name: c.Name, Image: c.Image, About: c.About, History: c.History}
	}
	toEntryF := func(f *domain.Food) entryOut {
		return entryOut{ID: f.ID, Name: f.Name, Image: f.Image, About: f.About, History: f.History}
	}

	listAction(public, "/cities", h.svc.Cities, toCity)
	getAction(public, "/cities/:id", h.svc.City, toCity)

	ez.Register(public, ez.Action[tourismQ, resp.List[tourismItem]]{
		Method: http.MethodGet,
		Path:   "/tourism",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ auth.Identity, in *tourismQ) (resp.List[tourismItem], error) {
			rows, err := h.svc.TourismList(c.Request.Context(), in.CityID)
			if err != nil {
				return resp.List[tourismItem]{}, err
			}
			return resp.NewList(mapAll(rows, func(t *domain.Tourism) tourismItem {
				return tourismItem{ID: t.ID, Name: t.Name, Image: t.Image, City: t.CityID}
			})), nil
		},
	})
	getAction(public, "/tourism/:id", h.svc.Tourism, toTourismDetail)

	ez.Register(public, ez.Action[tripQ, resp.List[tripPlannerOut]]{
		Method: http.MethodGet,
		Path:   "/trip-planner",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, _ auth.Identity, in *tripQ) (resp.List[tripPlannerOut], error) {
			rows, err := h.svc.TripPlanners(c.Request.Context(), in.TourismID)
			if err != nil {
				return resp.List[tripPlannerOut]{}, err
			}
			return resp.NewList(mapAll(rows, toTripPlanner)), nil
		},
	})
	getAction(public, "/trip-planner/:id", h.svc.TripPlanner, toTripPlanner)

	listAction(public, "/culture", h.svc.Cultures, toEntryC)
	getAction(public, "/culture/:id", h.svc.Culture, toEntryC)
	listAction(public, "/food", h.svc.Foods, toEntryF)
	getAction(public, "/food/:id", h.svc.Food, toEntryF)
}

func (h *Catalog) MountAdmin(admin ez.EZ) {
	ez.Register(admin, ez.Action[cityIn, cityOut]{
		Method: http.MethodPost,
		Path:   "/cities",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *cityIn) (cityOut, error) {
			city, err := h.svc.CreateCity(c.Request.Context(), service.CityInput{Name: in.Name, Thumbnail: in.Thumbnail})
			if err != nil {
				return cityOut{}, err
			}
			return toCity(city), nil
		},
	})
	ez.Register(admin, ez.Action[tourismIn, tourismDetail]{
		Method: http.MethodPost,
		Path:   "/tourism",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *tourismIn) (tourismDetail, error) {
			t, err := h.svc.CreateTourism(c.Request.Context(), service.TourismInput{
				CityID:   in.CityID,
				Name:     in.Name,
				Image:    in.Image,
				About:    in.About,
				History:  in.History,
				Location: in.Location,
			})
			if err != nil {
				return tourismDetail{}, err
			}
			return toTourismDetail(t), nil
		},
	})
	ez.Register(admin, ez.Action[tripPlannerIn, tripPlannerOut]{
		Method: http.MethodPost,
		Path:   "/trip-planner",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *tripPlannerIn) (tripPlannerOut, error) {
			p, err := h.svc.CreateTripPlanner(c.Request.Context(), service.TripPlannerInput{
				TourismID:         in.TourismID,
				Name:              in.Name,
				Banner:            in.Banner,
				ContactPersonName: in.ContactPersonName,
				Mobile:            in.Mobile,
			})
			if err != nil {
				return tripPlannerOut{}, err
			}
			return toTripPlanner(p), nil
		},
	})
	ez.Register(admin, ez.Action[entryIn, entryOut]{
		Method: http.MethodPost,
		Path:   "/culture",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *entryIn) (entryOut, error) {
			e, err := h.svc.CreateCulture(c.Request.Context(), in.input())
			if err != nil {
				return entryOut{}, err
			}
			return entryOut{ID: e.ID, Name: e.Name, Image: e.Image, About: e.About, History: e.History}, nil
		},
	})
	ez.Register(admin, ez.Action[entryIn, entryOut]{
		Method: http.MethodPost,
		Path:   "/food",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *entryIn) (entryOut, error) {
			f, err := h.svc.CreateFood(c.Request.Context(), in.input())
			if err != nil {
				return entryOut{}, err
			}
			return entryOut{ID: f.ID, Name: f.Name, Image: f.Image, About: f.About, History: f.History}, nil
		},
	})

	kinds := map[string]service.CatalogKind{
		"/cities/:id":       service.KindCity,
		"/tourism/:id":      service.KindTourism,
		"/trip-planner/:id": service.KindTripPlanner,
		"/culture/:id":      service.KindCulture,
		"/food/:id":         service.KindFood,
	}
	for path, kind := range kinds {
		kind := kind
		ez.Register(admin, ez.Action[struct{}, idOut]{
			Method: http.MethodDelete,
			Path:   path,
			Binder: ez.BindNone,
			Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (idOut, error) {
				id := c.Param("id")
				return idOut{ID: id}, h.svc.Delete(c.Request.Context(), kind, id)
			},
		})
	}
}
