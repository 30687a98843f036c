package ingest

import (
	"fmt"
	"io"
	"math"

	"github.com/buckket/go-blurhash"
	"github.com/disintegration/imaging"
)

const (
	// Placeholder inputs are downsampled onto a fixed 32×32 canvas before
	// encoding; the hash is a preview summary, not a content hash.
	placeholderSize = 32

	blurhashXComponents = 5
	blurhashYComponents = 4
)

// ImageInfo carries the presentation facts of an uploaded image: pixel
// dimensions, aspect ratio rounded to two decimals, and the compact
// placeholder string rendered while the full image loads.
type ImageInfo struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	Placeholder string  `json:"placeholder"`
}

// GeneratePlaceholder decodes an image, downsamples it and encodes the
// blur placeholder. Unlike EXIF extraction this is required for an upload,
// so failures are returned as errors.
func GeneratePlaceholder(r io.Reader) (*ImageInfo, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has empty dimensions %dx%d", width, height)
	}

	small := imaging.Resize(img, placeholderSize, placeholderSize, imaging.Lanczos)

	hash, err := blurhash.Encode(blurhashXComponents, blurhashYComponents, small)
	if err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}

	return &ImageInfo{
		Width:       width,
		Height:      height,
		AspectRatio: RoundAspectRatio(width, height),
		Placeholder: hash,
	}, nil
}

// RoundAspectRatio computes width/height rounded to two decimals.
func RoundAspectRatio(width, height int) float64 {
	if height == 0 {
		return 0
	}
	return math.Round(float64(width)/float64(height)*100) / 100
}
