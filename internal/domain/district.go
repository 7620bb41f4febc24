package domain

type District struct {
	ID     uint           `gorm:"primaryKey"`
	Name   string         `gorm:"size:100;uniqueIndex;not null"`
	Cities []DistrictCity `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE"`
}

// DistrictCity is a city inside a district, distinct from the tourism City.
type DistrictCity struct {
	ID         uint   `gorm:"primaryKey"`
	DistrictID uint   `gorm:"index;not null"`
	Name       string `gorm:"size:100;not null"`
}

func (DistrictCity) TableName() string { return "district_cities" }

type Location struct {
	ID         uint   `gorm:"primaryKey"`
	DistrictID uint   `gorm:"index;not null"`
	CityID     uint   `gorm:"index;not null"`
	Name       string `gorm:"size:100;not null"`
}
