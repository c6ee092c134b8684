package color

import (
	"log/slog"
)

// HexCodec stores colours as "#rrggbbaa" text.
type HexCodec struct{}

func (HexCodec) Encode(c Color) []byte {
	return []byte(c.HexA())
}

func (HexCodec) Decode(data []byte) (Color, error) {
	return Parse(string(data))
}

// DecodeOrDefault decodes data with codec, falling back to Default when the
// blob is absent or unreadable. It never fails.
func DecodeOrDefault(codec Codec, data []byte) Color {
	if len(data) == 0 {
		return Default
	}

	c, err := codec.Decode(data)
	if err != nil {
		slog.Debug("falling back to default card color", "error", err)
		return Default
	}

	return c
}
