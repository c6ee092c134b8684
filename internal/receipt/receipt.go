// Package receipt shrinks receipt photos into the blob stored on a
// transaction.
package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	DefaultSize    = 500
	DefaultQuality = 50

	// DefaultMaxPixels bounds the decoded size of an upload (25 megapixels).
	DefaultMaxPixels = 25_000_000
)

var (
	ErrUnsupported = errors.New("unsupported image")
	ErrTooLarge    = errors.New("image dimensions too large")
)

// Resizer scales photos to fill a Size×Size square (centre-cropped) and
// re-encodes them as JPEG. Photos whose header declares more than
// MaxPixels are rejected before any pixel data is decoded.
type Resizer struct {
	Size      int
	Quality   int
	MaxPixels int64
}

func NewResizer(size, quality int) *Resizer {
	if size <= 0 {
		size = DefaultSize
	}

	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	return &Resizer{Size: size, Quality: quality, MaxPixels: DefaultMaxPixels}
}

// Process returns the stored form of the photo read from r. Empty input
// means no photo and yields nil.
func (z *Resizer) Process(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	hdr, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	if pixels := int64(hdr.Width) * int64(hdr.Height); z.MaxPixels > 0 && pixels > z.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, hdr.Width, hdr.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, z.Size, z.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, fillCrop(src.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: z.Quality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	return buf.Bytes(), nil
}

// fillCrop picks the centred region of b with the target's aspect ratio
// (square) so scaling it fills the target with no letterboxing.
func fillCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()

	side := min(w, h)
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	return image.Rect(x0, y0, x0+side, y0+side)
}
