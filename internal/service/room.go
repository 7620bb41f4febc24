package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"roomhub/internal/core/auth"
	"roomhub/internal/domain"
)

type RoomService struct {
	rooms     domain.RoomRepository
	districts domain.DistrictRepository
	blobs     BlobStore
	log       *zap.Logger
}

func NewRoomService(rooms domain.RoomRepository, districts domain.DistrictRepository, blobs BlobStore, l *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, districts: districts, blobs: blobs, log: l}
}

type RoomInput struct {
	Title        *string
	Content      *string
	IsFurnished  *string
	Price        *float64
	DistrictID   *uint
	CityID       *uint
	Address      *string
	MobileNumber *string
	Images       []ImageUpload
}

func (s *RoomService) List(ctx context.Context, id auth.Identity) ([]domain.Room, error) {
	return s.rooms.ListByOwner(ctx, id.UserID)
}

func (s *RoomService) Get(ctx context.Context, id auth.Identity, roomID uint) (*domain.Room, error) {
	return s.rooms.GetOwned(ctx, id.UserID, roomID)
}

// Create stores the room and its images in one transaction. Files written
// before a failure are removed again.
func (s *RoomService) Create(ctx context.Context, id auth.Identity, in RoomInput) (*domain.Room, error) {
	room := &domain.Room{UserID: id.UserID, IsFurnished: domain.Unfurnished}
	if err := s.apply(ctx, s.districts, room, in, true); err != nil {
		return nil, err
	}

	var saved []string
	err := s.rooms.Atomic(ctx, func(tx domain.RoomRepository) error {
		for _, up := range in.Images {
			key, err := s.saveImage(ctx, up)
			if err != nil {
				return err
			}
			saved = append(saved, key)
			room.Images = append(room.Images, domain.RoomImage{Image: key})
		}
		return tx.Create(ctx, room)
	})
	if err != nil {
		s.removeBlobs(ctx, saved)
		return nil, err
	}
	s.log.Info("room created", zap.Uint("room_id", room.ID), zap.Uint("user_id", id.UserID), zap.Int("images", len(saved)))
	return room, nil
}

// Update locks the room, merges in and writes it back in one transaction.
func (s *RoomService) Update(ctx context.Context, id auth.Identity, roomID uint, in RoomInput) (*domain.Room, error) {
	var out *domain.Room
	err := s.rooms.Atomic(ctx, func(tx domain.RoomRepository) error {
		room, err := tx.GetForUpdate(ctx, id.UserID, roomID)
		if err != nil {
			return err
		}
		if len(in.Images) > 0 {
			return domain.NewValidationError("images", "images can only be attached on create")
		}
		if err := s.apply(ctx, tx.Places(), room, in, false); err != nil {
			return err
		}
		room.UserID = id.UserID
		if err := tx.Update(ctx, id.UserID, roomID, room); err != nil {
			return err
		}
		out = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the room with its image rows, then the stored files.
func (s *RoomService) Delete(ctx context.Context, id auth.Identity, roomID uint) error {
	room, err := s.rooms.DeleteOwned(ctx, id.UserID, roomID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(room.Images))
	for _, img := range room.Images {
		keys = append(keys, img.Image)
	}
	s.removeBlobs(ctx, keys)
	return nil
}

func (s *RoomService) saveImage(ctx context.Context, up ImageUpload) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	r, name, err := sniffImage(up.Filename, rc)
	if err != nil {
		return "", err
	}
	return s.blobs.Save(ctx, name, r)
}

func (s *RoomService) removeBlobs(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := s.blobs.Remove(ctx, k); err != nil {
			s.log.Warn("remove room image", zap.String("key", k), zap.Error(err))
		}
	}
}

// apply merges in onto room and validates the merged result.
func (s *RoomService) apply(ctx context.Context, places domain.DistrictRepository, room *domain.Room, in RoomInput, create bool) error {
	// Title and content are stored as sent and compared byte for byte.
	if in.Title != nil {
		room.Title = *in.Title
	}
	if in.Content != nil {
		room.Content = *in.Content
	}
	if in.IsFurnished != nil && *in.IsFurnished != "" {
		room.IsFurnished = domain.Furnishing(*in.IsFurnished)
	}
	if in.Price != nil {
		room.Price = *in.Price
	}
	if in.DistrictID != nil {
		room.DistrictID = zeroToNil(*in.DistrictID)
	}
	if in.CityID != nil {
		room.CityID = zeroToNil(*in.CityID)
	}
	if in.Address != nil {
		room.Address = strings.TrimSpace(*in.Address)
	}
	if in.MobileNumber != nil {
		room.MobileNumber = strings.TrimSpace(*in.MobileNumber)
	}

	verr := &domain.ValidationError{}
	switch {
	case create && in.Title == nil, strings.TrimSpace(room.Title) == "":
		verr.Add("title", "this field is required")
	case utf8.RuneCountInString(room.Title) > domain.RoomTitleMax:
		verr.Add("title", fmt.Sprintf("ensure this field has no more than %d characters", domain.RoomTitleMax))
	}
	if (create && in.Content == nil) || strings.TrimSpace(room.Content) == "" {
		verr.Add("content", "this field is required")
	} else if room.Title == room.Content {
		verr.Add("content", "title and content cannot be the same")
	}
	if !room.IsFurnished.Valid() {
		verr.Add("is_furnished", fmt.Sprintf("%q is not a valid choice", room.IsFurnished))
	}
	switch {
	case create && in.Price == nil:
		verr.Add("price", "this field is required")
	case room.Price < 0 || math.IsNaN(room.Price):
		verr.Add("price", "ensure this value is greater than or equal to 0")
	case room.Price > domain.RoomPriceMax:
		verr.Add("price", "price cannot exceed 20000")
	case !twoDecimals(room.Price):
		verr.Add("price", "ensure that there are no more than 2 decimal places")
	}
	if utf8.RuneCountInString(room.MobileNumber) > domain.RoomMobileMax {
		verr.Add("mobile_number", fmt.Sprintf("ensure this field has no more than %d characters", domain.RoomMobileMax))
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	return checkPlace(ctx, places, room)
}

// checkPlace verifies district and city references exist and agree.
func checkPlace(ctx context.Context, places domain.DistrictRepository, room *domain.Room) error {
	if room.DistrictID != nil {
		if _, err := places.GetDistrict(ctx, *room.DistrictID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("district_id", "invalid pk - object does not exist")
			}
			return err
		}
	}
	if room.CityID != nil {
		city, err := places.GetCity(ctx, *room.CityID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("city_id", "invalid pk - object does not exist")
		}
		if err != nil {
			return err
		}
		if room.DistrictID != nil && city.DistrictID != *room.DistrictID {
			return domain.NewValidationError("city_id", "city does not belong to the given district")
		}
	}
	return nil
}

func twoDecimals(v float64) bool {
	c := v * 100
	return math.Abs(c-math.Round(c)) < 1e-6
}

func zeroToNil(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
