package domain

import (
	"gorm.io/gorm"

	"roomhub/pkg/utils"
)

const CatalogNameMax = 200

type City struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:200;not null"`
	Thumbnail string `gorm:"size:255"`
}

func (City) TableName() string { return "cities" }

type Tourism struct {
	ID           string        `gorm:"primaryKey;size:36"`
	CityID       string        `gorm:"size:36;index;not null"`
	City         City          `gorm:"foreignKey:CityID;constraint:OnDelete:CASCADE"`
	Name         string        `gorm:"size:200;not null"`
	Image        string        `gorm:"size:255"`
	About        string        `gorm:"type:text"`
	History      string        `gorm:"type:text"`
	Location     string        `gorm:"size:255"`
	TripPlanners []TripPlanner `gorm:"foreignKey:TourismID;constraint:OnDelete:CASCADE"`
}

func (Tourism) TableName() string { return "tourism" }

type TripPlanner struct {
	ID                string `gorm:"primaryKey;size:36"`
	TourismID         string `gorm:"size:36;index;not null"`
	Name              string `gorm:"size:200;not null"`
	Banner            string `gorm:"size:255"`
	ContactPersonName string `gorm:"size:200"`
	Mobile            string `gorm:"size:15"`
}

type CultureAndTradition struct {
	ID      string `gorm:"primaryKey;size:36"`
	Name    string `gorm:"size:200;not null"`
	Image   string `gorm:"size:255"`
	About   string `gorm:"type:text"`
	History string `gorm:"type:text"`
}

func (CultureAndTradition) TableName() string { return "cultures" }

type Food struct {
	ID      string `gorm:"primaryKey;size:36"`
	Name    string `gorm:"size:200;not null"`
	Image   string `gorm:"size:255"`
	About   string `gorm:"type:text"`
	History string `gorm:"type:text"`
}

func (Food) TableName() string { return "foods" }

func assignID(id *string) {
	if *id == "" {
		*id = utils.NewID()
	}
}

func (m *City) BeforeCreate(*gorm.DB) error                { assignID(&m.ID); return nil }
func (m *Tourism) BeforeCreate(*gorm.DB) error             { assignID(&m.ID); return nil }
func (m *TripPlanner) BeforeCreate(*gorm.DB) error         { assignID(&m.ID); return nil }
func (m *CultureAndTradition) BeforeCreate(*gorm.DB) error { assignID(&m.ID); return nil }
func (m *Food) BeforeCreate(*gorm.DB) error                { assignID(&m.ID); return nil }
