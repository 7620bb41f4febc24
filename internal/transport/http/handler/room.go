package handler

import (
	"context"
	"io"
	"mime/multipart"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
	"roomhub/internal/service"
	"roomhub/internal/transport/http/ez"
)

// roomIn binds from JSON or from a multipart form carrying "images" parts.
type roomIn struct {
	Title        *string                 `json:"title" form:"title"`
	Content      *string                 `json:"content" form:"content"`
	IsFurnished  *string                 `json:"is_furnished" form:"is_furnished"`
	Price        *float64                `json:"price" form:"price"`
	DistrictID   *uint                   `json:"district_id" form:"district_id"`
	CityID       *uint                   `json:"city_id" form:"city_id"`
	Address      *string                 `json:"address" form:"address"`
	MobileNumber *string                 `json:"mobile_number" form:"mobile_number"`
	Images       []*multipart.FileHeader `json:"-" form:"images"`
}

func (in *roomIn) input() service.RoomInput {
	out := service.RoomInput{
		Title:        in.Title,
		Content:      in.Content,
		IsFurnished:  in.IsFurnished,
		Price:        in.Price,
		DistrictID:   in.DistrictID,
		CityID:       in.CityID,
		Address:      in.Address,
		MobileNumber: in.MobileNumber,
	}
	for _, fh := range in.Images {
		fh := fh
		out.Images = append(out.Images, service.ImageUpload{
			Filename: fh.Filename,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return out
}

type roomImageOut struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

type roomOut struct {
	ID           uint           `json:"id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	IsFurnished  string         `json:"is_furnished"`
	Price        float64        `json:"price"`
	DistrictID   *uint          `json:"district_id"`
	CityID       *uint          `json:"city_id"`
	Address      string         `json:"address"`
	MobileNumber string         `json:"mobile_number"`
	RoomImages   []roomImageOut `json:"room_images"`
}

type roomCrud struct {
	svc   *service.RoomService
	media func(key string) string
}

func (s roomCrud) out(r *domain.Room) roomOut {
	o := roomOut{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		IsFurnished:  string(r.IsFurnished),
		Price:        r.Price,
		DistrictID:   r.DistrictID,
		CityID:       r.CityID,
		Address:      r.Address,
		MobileNumber: r.MobileNumber,
		RoomImages:   make([]roomImageOut, 0, len(r.Images)),
	}
	for _, img := range r.Images {
		o.RoomImages = append(o.RoomImages, roomImageOut{ID: img.ID, Image: s.media(img.Image)})
	}
	return o
}

func (s roomCrud) List(ctx context.Context, id auth.Identity) ([]roomOut, error) {
	rows, err := s.svc.List(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]roomOut, 0, len(rows))
	for i := range rows {
		out = append(out, s.out(&rows[i]))
	}
	return out, nil
}

func (s roomCrud) Get(ctx context.Context, id auth.Identity, key uint) (roomOut, error) {
	r, err := s.svc.Get(ctx, id, key)
	if err != nil {
		return roomOut{}, err
	}
	return s.out(r), nil
}

func (s roomCrud) Create(ctx context.Context, id auth.Identity, in *roomIn) (roomOut, error) {
	r, err := s.svc.Create(ctx, id, in.input())
	if err != nil {
		return roomOut{}, err
	}
	return s.out(r), nil
}

func (s roomCrud) Update(ctx context.Context, id auth.Identity, key uint, in *roomIn) (roomOut, error) {
	r, err := s.svc.Update(ctx, id, key, in.input())
	if err != nil {
		return roomOut{}, err
	}
	return s.out(r), nil
}

func (s roomCrud) Delete(ctx context.Context, id auth.Identity, key uint) error {
	return s.svc.Delete(ctx, id, key)
}

type Room struct {
	crud roomCrud
}

// NewRoom mounts /room. media turns a stored image key into its public URL.
func NewRoom(s *service.RoomService, media func(key string) string) *Room {
	if media == nil {
		media = func(key string) string { return key }
	}
	return &Room{crud: roomCrud{svc: s, media: media}}
}

func (h *Room) MountAPI(_, authed ez.EZ) {
	ez.Crud(authed, ez.CrudConfig[roomIn, roomOut]{
		Path:    "/room",
		Service: h.crud,
		Bind:    ez.Into[roomIn](ez.BindForm),
	})
}
