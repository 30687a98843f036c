package entity

import (
	"time"

	"github.com/google/uuid"
)

// CitySet is the derived aggregate of all photos sharing a resolved
// (country, city) pair. Rows are created, counted and deleted exclusively
// by the city-set repository as a side effect of photo inserts and deletes;
// no other code path may write photo_count or cover_photo_id.
type CitySet struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description *string   `json:"description,omitempty"`

	Country     string  `json:"country" gorm:"not null;uniqueIndex:idx_city_sets_country_city"`
	CountryCode *string `json:"country_code,omitempty"`
	City        string  `json:"city" gorm:"not null;uniqueIndex:idx_city_sets_country_city"`

	CoverPhotoID uuid.UUID `json:"cover_photo_id" gorm:"type:uuid;not null"`
	CoverPhoto   *Photo    `json:"cover_photo,omitempty" gorm:"foreignKey:CoverPhotoID"`

	PhotoCount int `json:"photo_count" gorm:"not null;default:0"`

	// Loaded by the repository through the resolved-city rule, not a gorm
	// association: photos join on (country, resolved city), which has no
	// single-column foreign key.
	Photos []Photo `json:"photos,omitempty" gorm:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime;index"`
}

func (CitySet) TableName() string {
	return "city_sets"
}
