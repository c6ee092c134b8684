package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/spendingtracker/internal/encoding"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

var ErrNoProfile = errors.New("no matching statement format: expected date, description and amount columns")

var separators = []rune{';', ','}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
}

// Parser reads CSV statement exports. The separator and column layout are
// detected from the header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	for _, sep := range separators {
		rows, err := readRows(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("statement format detected",
			"profile", profile.Name, "separator", string(sep), "charset", charset)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	}

	return nil, ErrNoProfile
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile and
// returns it with the column map and the header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].matches(cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows converts data rows into transaction params. Rows without a
// parseable date or a non-zero amount are skipped as footer or balance
// lines. headerRowNum is the 0-based header index, used in errors.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx, _ := p.Date.find(cols)
	descIdx, _ := p.Desc.find(cols)

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		amount, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		txs = append(txs, transaction.CreateParams{
			Name:      desc,
			Amount:    amount.StringFixed(2),
			Timestamp: date,
		})
	}

	return txs, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount returns the spent amount of a row. Refunds and credits come
// back negative.
func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountSpend:
		idx, _ := p.Amount.find(cols)
		return nonZero(cellValue(row, idx))
	case amountSigned:
		idx, _ := p.Amount.find(cols)
		d, ok := nonZero(cellValue(row, idx))

		return d.Neg(), ok
	case amountSplit:
		debitIdx, _ := p.Debit.find(cols)
		if d, ok := nonZero(cellValue(row, debitIdx)); ok {
			return d.Abs(), true
		}

		creditIdx, _ := p.Credit.find(cols)
		if d, ok := nonZero(cellValue(row, creditIdx)); ok {
			return d.Abs().Neg(), true
		}
	}

	return decimal.Zero, false
}

func nonZero(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseDecimal(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
