package card

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
)

func TestParseLimit(t *testing.T) {
	tests := map[string]int32{
		"5000":        5000,
		" 42 ":        42,
		"-10":         -10,
		"abc":         0,
		"":            0,
		"12.5":        0,
		"99999999999": 0,
		"2147483647":  2147483647,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLimit(in), "ParseLimit(%q)", in)
	}
}

func TestNormalizeMonthYear(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int16(1), NormalizeMonth(1))
	assert.Equal(t, int16(12), NormalizeMonth(12))
	assert.Equal(t, int16(1), NormalizeMonth(0))
	assert.Equal(t, int16(1), NormalizeMonth(13))

	assert.Equal(t, int16(2030), NormalizeYear(2030, now))
	assert.Equal(t, int16(2026), NormalizeYear(30, now))
	assert.Equal(t, int16(2026), NormalizeYear(40000, now))
}

func TestFieldsFrom(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	codec := color.HexCodec{}

	t.Run("Defaults", func(t *testing.T) {
		f := FieldsFrom(nil, codec, now)
		assert.Equal(t, TypeVisa, f.Type)
		assert.Equal(t, 1, f.ExpMonth)
		assert.Equal(t, 2026, f.ExpYear)
		assert.Nil(t, f.Color)
	})

	t.Run("FromCard", func(t *testing.T) {
		c := &Card{
			ID:       uuid.New(),
			Name:     "Chase",
			Number:   "4111",
			Limit:    700,
			Type:     TypeAmericanExpress,
			ExpMonth: 9,
			ExpYear:  2029,
			Color:    []byte("#00ff00ff"),
		}

		f := FieldsFrom(c, codec, now)
		assert.Equal(t, "Chase", f.Name)
		assert.Equal(t, "700", f.Limit)
		assert.Equal(t, 9, f.ExpMonth)
		require.NotNil(t, f.Color)
		assert.Equal(t, "#00ff00", f.Color.Hex())
	})

	t.Run("CorruptColorIgnored", func(t *testing.T) {
		f := FieldsFrom(&Card{Color: []byte("garbage")}, codec, now)
		assert.Nil(t, f.Color)
	})
}

func TestCard_Expiry(t *testing.T) {
	assert.Equal(t, "03/30", (&Card{ExpMonth: 3, ExpYear: 2030}).Expiry())
	assert.Equal(t, "12/05", (&Card{ExpMonth: 12, ExpYear: 2105}).Expiry())
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []Type{"VISA", "Master Card", "American Express"}, Types())
}
