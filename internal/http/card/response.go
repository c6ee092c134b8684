package card

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
)

type cardResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Limit     int32     `json:"limit"`
	Type      card.Type `json:"type"`
	ExpMonth  int16     `json:"exp_month"`
	ExpYear   int16     `json:"exp_year"`
	Expiry    string    `json:"expiry"`
	Color     string    `json:"color"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) toResponse(c *card.Card) cardResponse {
	return cardResponse{
		ID:        c.ID,
		Name:      c.Name,
		Number:    c.Number,
		Limit:     c.Limit,
		Type:      c.Type,
		ExpMonth:  c.ExpMonth,
		ExpYear:   c.ExpYear,
		Expiry:    c.Expiry(),
		Color:     h.svc.ColorOf(c).HexA(),
		Timestamp: c.Timestamp,
	}
}

func (h *Handler) toResponseList(cards []*card.Card) []cardResponse {
	resp := make([]cardResponse, len(cards))
	for i, c := range cards {
		resp[i] = h.toResponse(c)
	}

	return resp
}
