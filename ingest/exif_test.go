package ingest

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExifReturnsNilOnGarbage(t *testing.T) {
	assert.Nil(t, ExtractExif(strings.NewReader("not an image at all")))
}

func TestExtractExifReturnsNilOnEmptyInput(t *testing.T) {
	assert.Nil(t, ExtractExif(bytes.NewReader(nil)))
}

func TestExtractExifReturnsNilWithoutMetadataSegment(t *testing.T) {
	// A valid image that simply carries no EXIF block must degrade to nil,
	// not to an error or a zero-filled record.
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	assert.Nil(t, ExtractExif(&buf))
}
