package card

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the card network. The UI offers the three constants below but any
// text is stored as given.
type Type string

const (
	TypeVisa            Type = "VISA"
	TypeMasterCard      Type = "Master Card"
	TypeAmericanExpress Type = "American Express"
)

// Types lists the networks offered in forms, in display order.
func Types() []Type {
	return []Type{TypeVisa, TypeMasterCard, TypeAmericanExpress}
}

var ErrNotFound = errors.New("card not found")

// Card is a tracked credit card. Timestamp is set when the card is created
// and orders cards newest first.
type Card struct {
	ID        uuid.UUID
	Name      string
	Number    string
	Limit     int32
	Type      Type
	ExpMonth  int16 // 1-12
	ExpYear   int16
	Color     []byte // encoded by a color.Codec; nil when unset
	Timestamp time.Time
}

// Expiry formats the expiration as "MM/YY".
func (c *Card) Expiry() string {
	return fmt.Sprintf("%02d/%02d", c.ExpMonth, int(c.ExpYear)%100)
}
