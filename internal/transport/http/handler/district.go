package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/service"
	"roomhub/internal/transport/http/ez"
	resp "roomhub/internal/transport/http/response"
)

type placeOut struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type districtOut struct {
	ID     uint       `json:"id"`
	Name   string     `json:"name"`
	Cities []placeOut `json:"cities"`
}

type locationOut struct {
	ID         uint   `json:"id"`
	DistrictID uint   `json:"district_id"`
	CityID     uint   `json:"city_id"`
	Name       string `json:"name"`
}

type nameIn struct {
	Name string `json:"name"`
}

type locationIn struct {
	CityID uint   `json:"city_id" binding:"required"`
	Name   string `json:"name"`
}

type idOut struct {
	ID any `json:"id"`
}

func toDistrict(d *domain.District) districtOut {
	o := districtOut{ID: d.ID, Name: d.Name, Cities: make([]placeOut, 0, len(d.Cities))}
	for _, c := range d.Cities {
		o.Cities = append(o.Cities, placeOut{ID: c.ID, Name: c.Name})
	}
	return o
}

func toLocation(l *domain.Location) locationOut {
	return locationOut{ID: l.ID, DistrictID: l.DistrictID, CityID: l.CityID, Name: l.Name}
}

// pathID reads a numeric :id. Anything else is reported as a miss.
func pathID(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		return 0, ez.NotFound("not found")
	}
	return uint(v), nil
}

// District serves the read side on the API and the writes on the admin server.
type District struct {
	svc *service.DistrictService
}

func NewDistrict(s *service.DistrictService) *District { return &District{svc: s} }

func (h *District) MountAPI(_, authed ez.EZ) {
	ez.Register(authed, ez.Action[struct{}, resp.List[districtOut]]{
		Method: http.MethodGet,
		Path:   "/districts",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (resp.List[districtOut], error) {
			ds, err := h.svc.List(c.Request.Context())
			if err != nil {
				return resp.List[districtOut]{}, err
			}
			out := make([]districtOut, 0, len(ds))
			for i := range ds {
				out = append(out, toDistrict(&ds[i]))
			}
			return resp.NewList(out), nil
		},
	})
	ez.Register(authed, ez.Action[struct{}, resp.List[locationOut]]{
		Method: http.MethodGet,
		Path:   "/districts/:id/locations",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (resp.List[locationOut], error) {
			id, err := pathID(c)
			if err != nil {
				return resp.List[locationOut]{}, err
			}
			ls, err := h.svc.Locations(c.Request.Context(), id)
			if err != nil {
				return resp.List[locationOut]{}, err
			}
			out := make([]locationOut, 0, len(ls))
			for i := range ls {
				out = append(out, toLocation(&ls[i]))
			}
			return resp.NewList(out), nil
		},
	})
}

func (h *District) MountAdmin(admin ez.EZ) {
	ez.Register(admin, ez.Action[nameIn, districtOut]{
		Method: http.MethodPost,
		Path:   "/districts",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *nameIn) (districtOut, error) {
			d, err := h.svc.CreateDistrict(c.Request.Context(), in.Name)
			if err != nil {
				return districtOut{}, err
			}
			return toDistrict(d), nil
		},
	})
	ez.Register(admin, ez.Action[nameIn, placeOut]{
		Method: http.MethodPost,
		Path:   "/districts/:id/cities",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *nameIn) (placeOut, error) {
			id, err := pathID(c)
			if err != nil {
				return placeOut{}, err
			}
			city, err := h.svc.CreateCity(c.Request.Context(), id, in.Name)
			if err != nil {
				return placeOut{}, err
			}
			return placeOut{ID: city.ID, Name: city.Name}, nil
		},
	})
	ez.Register(admin, ez.Action[locationIn, locationOut]{
		Method: http.MethodPost,
		Path:   "/districts/:id/locations",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ auth.Identity, in *locationIn) (locationOut, error) {
			id, err := pathID(c)
			if err != nil {
				return locationOut{}, err
			}
			l, err := h.svc.CreateLocation(c.Request.Context(), id, in.CityID, in.Name)
			if err != nil {
				return locationOut{}, err
			}
			return toLocation(l), nil
		},
	})

	deletes := map[string]func(*gin.Context, uint) error{
		"/districts/:id":       func(c *gin.Context, id uint) error { return h.svc.DeleteDistrict(c.Request.Context(), id) },
		"/district-cities/:id": func(c *gin.Context, id uint) error { return h.svc.DeleteCity(c.Request.Context(), id) },
		"/locations/:id":       func(c *gin.Context, id uint) error { return h.svc.DeleteLocation(c.Request.Context(), id) },
	}
	for path, del := range deletes {
		del := del
		ez.Register(admin, ez.Action[struct{}, idOut]{
			Method: http.MethodDelete,
			Path:   path,
			Binder: ez.BindNone,
			Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (idOut, error) {
				id, err := pathID(c)
				if err != nil {
					return idOut{}, err
				}
				return idOut{ID: id}, del(c, id)
			},
		})
	}
}
