package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

type transactionResponse struct {
	ID        uuid.UUID `json:"id"`
	CardID    uuid.UUID `json:"card_id"`
	Name      string    `json:"name"`
	Amount    float32   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	HasPhoto  bool      `json:"has_photo"`
	CreatedAt time.Time `json:"created_at"`
}

type listResponse struct {
	Total        float64               `json:"total"`
	Transactions []transactionResponse `json:"transactions"`
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		CardID:    tx.CardID,
		Name:      tx.Name,
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
		HasPhoto:  tx.HasPhoto(),
		CreatedAt: tx.CreatedAt,
	}
}

func toResponses(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toListResponse(txs []*transaction.Transaction) listResponse {
	return listResponse{
		Total:        transaction.Total(txs),
		Transactions: toResponses(txs),
	}
}
