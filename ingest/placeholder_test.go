package ingest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestGeneratePlaceholder(t *testing.T) {
	buf := encodePNG(t, 300, 200)

	info, err := GeneratePlaceholder(buf)
	require.NoError(t, err)

	assert.Equal(t, 300, info.Width)
	assert.Equal(t, 200, info.Height)
	assert.Equal(t, 1.5, info.AspectRatio)
	assert.NotEmpty(t, info.Placeholder)
}

func TestGeneratePlaceholderPortrait(t *testing.T) {
	buf := encodePNG(t, 200, 300)

	info, err := GeneratePlaceholder(buf)
	require.NoError(t, err)

	assert.Equal(t, 0.67, info.AspectRatio)
}

func TestGeneratePlaceholderRejectsNonImage(t *testing.T) {
	_, err := GeneratePlaceholder(strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestGeneratePlaceholderStableForSameInput(t *testing.T) {
	first, err := GeneratePlaceholder(encodePNG(t, 64, 64))
	require.NoError(t, err)
	second, err := GeneratePlaceholder(encodePNG(t, 64, 64))
	require.NoError(t, err)

	assert.Equal(t, first.Placeholder, second.Placeholder)
}

func TestRoundAspectRatio(t *testing.T) {
	assert.Equal(t, 1.5, RoundAspectRatio(3000, 2000))
	assert.Equal(t, 1.78, RoundAspectRatio(1920, 1080))
	assert.Equal(t, 1.0, RoundAspectRatio(500, 500))
	assert.Equal(t, 0.0, RoundAspectRatio(100, 0))
}
