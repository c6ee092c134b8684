package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "#ff8800", want: "#ff8800ff"},
		{in: "FF8800", want: "#ff8800ff"},
		{in: "#f80", want: "#ff8800ff"},
		{in: "#11223344", want: "#11223344"},
		{in: " #000000 ", want: "#000000ff"},
		{in: "", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, c.HexA())
		})
	}
}

func TestHexCodec_RoundTrip(t *testing.T) {
	codec := HexCodec{}

	for _, in := range []Color{Default, MustParse("#1e90ff"), MustParse("#12345678"), MustParse("#000000")} {
		out, err := codec.Decode(codec.Encode(in))
		require.NoError(t, err)
		assert.True(t, in.Equivalent(out), "%s != %s", in.HexA(), out.HexA())
	}
}

func TestDecodeOrDefault(t *testing.T) {
	codec := HexCodec{}

	assert.Equal(t, Default, DecodeOrDefault(codec, nil))
	assert.Equal(t, Default, DecodeOrDefault(codec, []byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, Default, DecodeOrDefault(codec, []byte("bplist00garbage")))

	blue := MustParse("#0000ff")
	assert.True(t, blue.Equivalent(DecodeOrDefault(codec, codec.Encode(blue))))
}

func TestFaded(t *testing.T) {
	black := MustParse("#000000")
	white := MustParse("#ffffff")

	assert.Equal(t, "#ffffff", white.Faded(black, 1).Hex())
	assert.Equal(t, "#000000", white.Faded(black, 0).Hex())
	assert.Equal(t, "#999999", white.Faded(black, 0.6).Hex())
}
