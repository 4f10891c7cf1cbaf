package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// twoRows is a 1x2 frame, bottom row red, top row blue, in GL order.
var twoRows = []byte{
	255, 0, 0, 255,
	0, 0, 255, 255,
}

func TestFromPixelsFlips(t *testing.T) {
	img, err := FromPixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 1))

	_, err = FromPixels(twoRows, 2, 2)
	assert.Error(t, err)
}

func fixedClock(c *Capturer) {
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
}

func TestSavePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c, err := New(dir, "bird", "")
	require.NoError(t, err)
	fixedClock(c)

	name, err := c.SavePixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bird_2024-05-01_12-30-00_000.png"), name)

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 2), img.Bounds())

	assert.Equal(t, filepath.Join(dir, "bird_2024-05-01_12-30-00_001.png"), c.Filename(), "same second, new name")
}

func TestSaveBMP(t *testing.T) {
	c, err := New(t.TempDir(), "bird", "BMP")
	require.NoError(t, err)

	name, err := c.SavePixels(twoRows, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, ".bmp", filepath.Ext(name))

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := bmp.Decode(f)
	require.NoError(t, err)
	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b)
}

func TestNewRejectsFormat(t *testing.T) {
	_, err := New("", "bird", "gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
