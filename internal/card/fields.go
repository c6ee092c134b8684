package card

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
)

// Fields is the draft held by the card form. Numeric inputs stay raw text
// so the form is always submittable; they are coerced on save.
type Fields struct {
	Name     string
	Number   string
	Limit    string
	Type     Type
	ExpMonth int
	ExpYear  int
	Color    *color.Color
}

// FieldsFrom seeds a draft from an existing card, or from defaults when c is
// nil.
func FieldsFrom(c *Card, codec color.Codec, now time.Time) Fields {
	if c == nil {
		return Fields{
			Type:     TypeVisa,
			ExpMonth: 1,
			ExpYear:  now.Year(),
		}
	}

	f := Fields{
		Name:     c.Name,
		Number:   c.Number,
		Limit:    strconv.FormatInt(int64(c.Limit), 10),
		Type:     c.Type,
		ExpMonth: int(c.ExpMonth),
		ExpYear:  int(c.ExpYear),
	}

	if len(c.Color) > 0 {
		if col, err := codec.Decode(c.Color); err == nil {
			f.Color = &col
		}
	}

	return f
}

// ParseLimit reads a credit limit. Anything that is not an int32 becomes 0.
func ParseLimit(s string) int32 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}

	return int32(v)
}

// NormalizeMonth keeps months in 1-12; anything else becomes 1.
func NormalizeMonth(m int) int16 {
	if m < 1 || m > 12 {
		return 1
	}

	return int16(m)
}

// NormalizeYear keeps four-digit years; anything else becomes now's year.
func NormalizeYear(y int, now time.Time) int16 {
	if y < 1000 || y > math.MaxInt16 {
		return int16(now.Year())
	}

	return int16(y)
}
