package domain

import "time"

type Furnishing string

const (
	Furnished     Furnishing = "furnished"
	Unfurnished   Furnishing = "unfurnished"
	SemiFurnished Furnishing = "semi-furnished"
)

func (f Furnishing) Valid() bool {
	switch f {
	case Furnished, Unfurnished, SemiFurnished:
		return true
	}
	return false
}

const (
	RoomTitleMax  = 100
	RoomPriceMax  = 20000
	RoomMobileMax = 15
)

type Room struct {
	ID           uint        `gorm:"primaryKey"`
	UserID       uint        `gorm:"index;not null"`
	Title        string      `gorm:"size:100;not null"`
	Content      string      `gorm:"type:text;not null"`
	IsFurnished  Furnishing  `gorm:"size:20;not null;default:unfurnished"`
	Price        float64     `gorm:"type:decimal(10,2);not null"`
	DistrictID   *uint       `gorm:"index"`
	CityID       *uint       `gorm:"index"`
	Address      string      `gorm:"size:255"`
	MobileNumber string      `gorm:"size:15"`
	Images       []RoomImage `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoomImage points at a blob in the image store by key.
type RoomImage struct {
	ID     uint   `gorm:"primaryKey"`
	RoomID uint   `gorm:"index;not null"`
	Image  string `gorm:"size:255;not null"`
}
