package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

const (
	csvName     = "transactions.csv"
	summaryName = "summary.txt"
	receiptDir  = "receipts"
)

var csvHeader = []string{"id", "date", "name", "amount", "receipt"}

type CardGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*card.Card, error)
}

type TransactionLister interface {
	List(ctx context.Context, cardID uuid.UUID) ([]*transaction.Transaction, error)
}

// Item is an exported transaction with the archive path of its receipt.
type Item struct {
	Transaction *transaction.Transaction
	ReceiptPath string
}

// Service builds zip archives of a card's transactions and receipt photos.
type Service struct {
	cards        CardGetter
	transactions TransactionLister
}

func NewService(cards CardGetter, txs TransactionLister) *Service {
	return &Service{cards: cards, transactions: txs}
}

// Export writes the archive for cardID to w and returns what it contains.
// An unknown card yields card.ErrNotFound before anything is written.
func (s *Service) Export(ctx context.Context, cardID uuid.UUID, w io.Writer) (*card.Card, []Item, error) {
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, nil, err
	}

	txs, err := s.transactions.List(ctx, cardID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing transactions: %w", err)
	}

	items := make([]Item, 0, len(txs))
	used := make(map[string]bool, len(txs))

	for _, tx := range txs {
		item := Item{Transaction: tx}
		if tx.HasPhoto() {
			item.ReceiptPath = receiptPath(tx, used)
		}

		items = append(items, item)
	}

	zw := zip.NewWriter(w)

	if err := writeCSV(zw, items); err != nil {
		return nil, nil, err
	}

	for _, item := range items {
		if item.ReceiptPath == "" {
			continue
		}

		if err := writeFile(zw, item.ReceiptPath, item.Transaction.PhotoData); err != nil {
			return nil, nil, err
		}
	}

	if err := writeFile(zw, summaryName, []byte(Summary(c, items))); err != nil {
		return nil, nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("closing archive: %w", err)
	}

	return c, items, nil
}

func writeCSV(zw *zip.Writer, items []Item) error {
	f, err := zw.Create(csvName)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvName, err)
	}

	cw := csv.NewWriter(f)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing %s: %w", csvName, err)
	}

	for _, item := range items {
		tx := item.Transaction

		record := []string{
			tx.ID.String(),
			tx.Timestamp.Format(time.DateOnly),
			tx.Name,
			fmt.Sprintf("%.2f", tx.Amount),
			item.ReceiptPath,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", csvName, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", csvName, err)
	}

	return nil
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// receiptPath names a receipt YYYYMMDD_name.jpg, suffixing _2, _3, ... until
// the name is unused. Names are compared case-insensitively.
func receiptPath(tx *transaction.Transaction, used map[string]bool) string {
	safeName := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, tx.Name)

	base := fmt.Sprintf("%s_%s", tx.Timestamp.Format("20060102"), safeName)

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}

	used[strings.ToLower(name)] = true

	return path.Join(receiptDir, name+".jpg")
}

// Summary renders one line per transaction followed by the total.
func Summary(c *card.Card, items []Item) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n\n", c.Name, c.Number)

	txs := make([]*transaction.Transaction, 0, len(items))

	for _, item := range items {
		tx := item.Transaction
		txs = append(txs, tx)

		receipt := "No receipt"
		if item.ReceiptPath != "" {
			receipt = path.Base(item.ReceiptPath)
		}

		fmt.Fprintf(&sb, "* %s | %s | $%.2f | %s\n", tx.Timestamp.Format(time.DateOnly), tx.Name, tx.Amount, receipt)
	}

	fmt.Fprintf(&sb, "\nTotal: $%.2f\n", transaction.Total(txs))

	return sb.String()
}
