package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lasermark/internal/point"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestImageSize(t *testing.T) {
	path := writePNG(t, 320, 240)

	w, h, err := ImageSize(path)
	require.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestLoadImageMissing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	img.Set(3, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, SaveImage(path, img))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())

	r, g, b, _ := loaded.At(3, 4).RGBA()
	assert.Equal(t, uint32(10), r>>8)
	assert.Equal(t, uint32(20), g>>8)
	assert.Equal(t, uint32(30), b>>8)
}

func TestDrawOverlayMarksCentre(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 64, 64))

	p := point.DefaultSettings().NewPoint(32, 32)
	p.ID = 1
	p.Colour = "#ff0000"

	out := DrawOverlay(base, []point.Point{p})

	// Centre dot takes the point's colour.
	r, g, b, _ := out.At(32, 32).RGBA()
	assert.Equal(t, uint32(0xff), r>>8)
	assert.Equal(t, uint32(0), g>>8)
	assert.Equal(t, uint32(0), b>>8)

	// The base image is left untouched.
	r, _, _, _ = base.At(32, 32).RGBA()
	assert.Equal(t, uint32(0), r>>8)
}

func TestDrawOverlayInvalidColourFallsBack(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 32, 32))

	p := point.DefaultSettings().NewPoint(16, 16)
	p.ID = 1
	p.Colour = "chartreuse"

	out := DrawOverlay(base, []point.Point{p})

	r, g, b, _ := out.At(16, 16).RGBA()
	assert.Equal(t, uint32(0xff), r>>8)
	assert.Equal(t, uint32(0xff), g>>8)
	assert.Equal(t, uint32(0), b>>8)
}

func TestDrawOverlayOffImagePointIsSafe(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 8, 8))

	p := point.DefaultSettings().NewPoint(100, -40)
	p.ID = 2

	assert.NotPanics(t, func() {
		DrawOverlay(base, []point.Point{p})
	})
}
