package ingest

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ExifData is the structured camera metadata extracted from an image.
// Every field is optional; tags absent from the source stay nil rather than
// zero-filled.
type ExifData struct {
	Make                 *string    `json:"make,omitempty"`
	Model                *string    `json:"model,omitempty"`
	LensModel            *string    `json:"lens_model,omitempty"`
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

	// Raw holds every decoded tag as name → string value, persisted
	// alongside the typed fields for later re-processing.
	Raw map[string]string `json:"raw,omitempty"`
}

// ExtractExif parses the embedded metadata block of an image. Metadata is
// optional to a successful upload, so any decode failure reports nil
// instead of an error.
func ExtractExif(r io.Reader) *ExifData {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}

	data := &ExifData{
		Make:                 tagString(x, exif.Make),
		Model:                tagString(x, exif.Model),
		LensModel:            tagString(x, exif.LensModel),
		FocalLength:          tagFloat(x, exif.FocalLength),
		FocalLength35mm:      tagIntAsFloat(x, exif.FocalLengthIn35mmFilm),
		FNumber:              tagFloat(x, exif.FNumber),
		ISO:                  tagInt(x, exif.ISOSpeedRatings),
		ExposureTime:         tagFloat(x, exif.ExposureTime),
		ExposureCompensation: tagFloat(x, exif.ExposureBiasValue),
	}

	if lat, lng, err := x.LatLong(); err == nil {
		data.Latitude = &lat
		data.Longitude = &lng
	}

	if alt := tagFloat(x, exif.GPSAltitude); alt != nil {
		if ref := tagInt(x, exif.GPSAltitudeRef); ref != nil && *ref == 1 {
			*alt = -*alt
		}
		data.GPSAltitude = alt
	}

	if t, err := x.DateTime(); err == nil {
		data.DateTimeOriginal = &t
	}

	collector := rawTagCollector{tags: map[string]string{}}
	if err := x.Walk(&collector); err == nil && len(collector.tags) > 0 {
		data.Raw = collector.tags
	}

	return data
}

type rawTagCollector struct {
	tags map[string]string
}

func (c *rawTagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c.tags[string(name)] = tag.String()
	return nil
}

func tagString(x *exif.Exif, name exif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil || val == "" {
		return nil
	}
	return &val
}

func tagInt(x *exif.Exif, name exif.FieldName) *int {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

func tagIntAsFloat(x *exif.Exif, name exif.FieldName) *float64 {
	val := tagInt(x, name)
	if val == nil {
		return nil
	}
	f := float64(*val)
	return &f
}

// tagFloat reads a rational tag as a float, falling back to integer
// encoding for files that store whole-number rationals as ints.
func tagFloat(x *exif.Exif, name exif.FieldName) *float64 {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	if num, den, err := tag.Rat2(0); err == nil && den != 0 {
		f := float64(num) / float64(den)
		return &f
	}
	if val, err := tag.Int(0); err == nil {
		f := float64(val)
		return &f
	}
	return nil
}
