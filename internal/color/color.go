// Package color holds the card theme colour and the codec used to persist
// it as an opaque blob.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB colour with alpha, channels in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

// Default is shown when a card has no colour or its blob cannot be decoded.
var Default = Color{Color: colorful.Color{R: 0, G: 1, B: 1}, A: 1}

var ErrMalformed = errors.New("malformed color")

// Codec converts colours to and from their stored form.
type Codec interface {
	Encode(c Color) []byte
	Decode(data []byte) (Color, error)
}

// Parse reads "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func Parse(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}) + "ff"
	case 6:
		s += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	return Color{
		Color: colorful.Color{
			R: float64(v>>24&0xff) / 255,
			G: float64(v>>16&0xff) / 255,
			B: float64(v>>8&0xff) / 255,
		},
		A: float64(v&0xff) / 255,
	}, nil
}

// MustParse is Parse for literals.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return c
}

// Hex returns "#rrggbb", the form lipgloss accepts.
func (c Color) Hex() string {
	return c.Clamped().Hex()
}

// HexA returns "#rrggbbaa".
func (c Color) HexA() string {
	return fmt.Sprintf("%s%02x", c.Hex(), uint8(clamp(c.A)*255+0.5))
}

// Faded blends c towards bg by 1-alpha, approximating c drawn at that opacity.
func (c Color) Faded(bg Color, alpha float64) Color {
	return Color{Color: bg.Color.BlendRgb(c.Color, clamp(alpha)).Clamped(), A: 1}
}

// Equivalent reports whether both colours render to the same 8-bit RGBA.
func (c Color) Equivalent(o Color) bool {
	return c.HexA() == o.HexA()
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}

	return v
}
