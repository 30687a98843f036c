package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PhotoVisibility string

const (
	PhotoVisibilityPublic  PhotoVisibility = "public"
	PhotoVisibilityPrivate PhotoVisibility = "private"
)

// Countries where city-level reverse geocoding is too granular to group by.
// Photos taken there are aggregated by region instead of city.
var regionGroupedCountries = map[string]bool{
	"JP": true,
	"TW": true,
}

type Photo struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	URL         string          `json:"url" gorm:"type:varchar(1024);not null"`
	Title       string          `json:"title" gorm:"not null"`
	Description string          `json:"description" gorm:"not null"`
	IsFavorite  bool            `json:"is_favorite" gorm:"not null;default:false"`
	Visibility  PhotoVisibility `json:"visibility" gorm:"type:varchar(16);not null;default:'private'"`
	AspectRatio float64         `json:"aspect_ratio" gorm:"not null"`
	Width       int             `json:"width" gorm:"not null"`
	Height      int             `json:"height" gorm:"not null"`
	BlurData    string          `json:"blur_data" gorm:"not null"`

	Country        *string `json:"country,omitempty"`
	CountryCode    *string `json:"country_code,omitempty"`
	Region         *string `json:"region,omitempty"`
	City           *string `json:"city,omitempty" gorm:"index"`
	District       *string `json:"district,omitempty"`
	FullAddress    *string `json:"full_address,omitempty"`
	PlaceFormatted *string `json:"place_formatted,omitempty"`

	Make                 *string    `json:"make,omitempty" gorm:"type:varchar(255)"`
	Model                *string    `json:"model,omitempty" gorm:"type:varchar(255)"`
	LensModel            *string    `json:"lens_model,omitempty" gorm:"type:varchar(255)"`
	FocalLength          *float64   `json:"focal_length,omitempty"`
	FocalLength35mm      *float64   `json:"focal_length_35mm,omitempty"`
	FNumber              *float64   `json:"f_number,omitempty"`
	ISO                  *int       `json:"iso,omitempty"`
	ExposureTime         *float64   `json:"exposure_time,omitempty"`
	ExposureCompensation *float64   `json:"exposure_compensation,omitempty"`
	Latitude             *float64   `json:"latitude,omitempty"`
	Longitude            *float64   `json:"longitude,omitempty"`
	GPSAltitude          *float64   `json:"gps_altitude,omitempty"`
	DateTimeOriginal     *time.Time `json:"datetime_original,omitempty"`

	// Raw EXIF tag dump as extracted at ingest time, kept for re-processing.
	Exif datatypes.JSON `json:"exif,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime;index"`
}

func (Photo) TableName() string {
	return "photos"
}

// ResolvedCity returns the city value used for city-set aggregation.
// The same function must be used on both the insert and the delete path,
// otherwise the aggregates desynchronize.
func (p *Photo) ResolvedCity() string {
	if regionGroupedCountries[derefString(p.CountryCode)] {
		return derefString(p.Region)
	}
	return derefString(p.City)
}

// HasCityGroup reports whether the photo carries enough geo data to be
// grouped into a city set.
func (p *Photo) HasCityGroup() bool {
	return derefString(p.Country) != "" && p.ResolvedCity() != ""
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
