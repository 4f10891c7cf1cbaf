// Package capture writes rendered frames to image files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for formats other than png and bmp.
var ErrUnknownFormat = errors.New("unknown capture format")

// Capturer saves frames as timestamped files in a directory.
type Capturer struct {
	dir    string
	prefix string
	format string
	now    func() time.Time
	seq    int
}

// New creates a capturer. format is "png" or "bmp"; empty means png.
func New(dir, prefix, format string) (*Capturer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "bmp" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Capturer{dir: dir, prefix: prefix, format: format, now: time.Now}, nil
}

// FromPixels builds an image from bottom-up RGBA rows, the order
// glReadPixels returns them in.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Filename returns the path the next capture would be written to.
func (c *Capturer) Filename() string {
	name := fmt.Sprintf("%s_%s_%03d.%s", c.prefix, c.now().Format("2006-01-02_15-04-05"), c.seq, c.format)
	if c.dir != "" {
		name = filepath.Join(c.dir, name)
	}
	return name
}

// SavePixels writes bottom-up RGBA pixels and returns the file name.
func (c *Capturer) SavePixels(pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.Save(img)
}

// Save writes img and returns the file name.
func (c *Capturer) Save(img image.Image) (string, error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename()
	c.seq++

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := c.encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", c.format, err)
	}
	return filename, file.Close()
}

func (c *Capturer) encode(w io.Writer, img image.Image) error {
	if c.format == "bmp" {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}
