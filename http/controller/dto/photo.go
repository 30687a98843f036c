package dto

import (
	"encoding/json"
	"time"

	"github.com/aperturelog/aperture/entity"
)

type CreatePhotoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	URL         string  `json:"url" binding:"required"`
	Width       int     `json:"width" binding:"required,gt=0"`
	Height      int     `json:"height" binding:"required,gt=0"`
	AspectRatio float64 `json:"aspect_ratio" binding:"required,gt=0"`
	BlurData    string  `json:"blur_data" binding:"required"`
	Visibility  string  `json:"visibility" binding:"omitempty,oneof=public private"`
	IsFavorite  bool    `json:"is_favorite"`

	Country        *string `json:"country"`
	CountryCode    *string `json:"country_code"`
	Region         *string `json:"region"`
	City           *string `json:"city"`
	District       *string `json:"district"`
	FullAddress    *string `json:"full_address"`
	PlaceFormatted *string `json:"place_formatted"`

	Make                 *string    `json:"make"`
	Model                *string    `json:"model"`
	LensModel            *string    `json:"lens_model"`
	FocalLength          *float64   `json:"focal_length"`
	FocalLength35mm      *float64   `json:"focal_length_35mm"`
	FNumber              *float64   `json:"f_number"`
	ISO                  *int       `json:"iso"`
	ExposureTime         *float64   `json:"exposure_time"`
	ExposureCompensation *float64   `json:"exposure_compensation"`
	Latitude             *float64   `json:"latitude"`
	Longitude            *float64   `json:"longitude"`
	GPSAltitude          *float64   `json:"gps_altitude"`
	DateTimeOriginal     *time.Time `json:"datetime_original"`

	Exif json.RawMessage `json:"exif"`
}

func (r *CreatePhotoRequest) ToEntity() *entity.Photo {
	visibility := entity.PhotoVisibilityPrivate
	if r.Visibility != "" {
		visibility = entity.PhotoVisibility(r.Visibility)
	}

	return &entity.Photo{
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Width:       r.Width,
		Height:      r.Height,
		AspectRatio: r.AspectRatio,
		BlurData:    r.BlurData,
		Visibility:  visibility,
		IsFavorite:  r.IsFavorite,

		Country:        r.Country,
		CountryCode:    r.CountryCode,
		Region:         r.Region,
		City:           r.City,
		District:       r.District,
		FullAddress:    r.FullAddress,
		PlaceFormatted: r.PlaceFormatted,

		Make:                 r.Make,
		Model:                r.Model,
		LensModel:            r.LensModel,
		FocalLength:          r.FocalLength,
		FocalLength35mm:      r.FocalLength35mm,
		FNumber:              r.FNumber,
		ISO:                  r.ISO,
		ExposureTime:         r.ExposureTime,
		ExposureCompensation: r.ExposureCompensation,
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		GPSAltitude:          r.GPSAltitude,
		DateTimeOriginal:     r.DateTimeOriginal,

		Exif: []byte(r.Exif),
	}
}

// UpdatePhotoRequest is the partial edit surface of a photo. Geo identity
// fields (country, city, region) are deliberately absent: edits never move
// a photo between city sets.
type UpdatePhotoRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1"`
	Description *string  `json:"description" binding:"omitempty,min=1"`
	IsFavorite  *bool    `json:"is_favorite"`
	Visibility  *string  `json:"visibility" binding:"omitempty,oneof=public private"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Updates flattens the set fields into a gorm updates map.
func (r *UpdatePhotoRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.IsFavorite != nil {
		updates["is_favorite"] = *r.IsFavorite
	}
	if r.Visibility != nil {
		updates["visibility"] = *r.Visibility
	}
	if r.Latitude != nil {
		updates["latitude"] = *r.Latitude
	}
	if r.Longitude != nil {
		updates["longitude"] = *r.Longitude
	}
	return updates
}
