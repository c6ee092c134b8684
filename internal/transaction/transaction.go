package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("transaction not found")
	// ErrCardRequired is returned when a transaction has no existing owner card.
	ErrCardRequired = errors.New("transaction requires an existing card")
)

// Transaction is a single spend on a card. Timestamp is the user-chosen
// date and orders a card's transactions newest first.
type Transaction struct {
	ID        uuid.UUID
	CardID    uuid.UUID
	Name      string
	Amount    float32
	Timestamp time.Time
	PhotoData []byte // resized receipt JPEG, nil when absent
	CreatedAt time.Time
}

func (t *Transaction) HasPhoto() bool {
	return len(t.PhotoData) > 0
}
