package importer

import "strings"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSpend is one column holding the spent amount, e.g. "12.50".
	amountSpend amountMode = iota
	// amountSigned is one bank-style signed column where debits are negative.
	amountSigned
	// amountSplit is separate debit and credit columns.
	amountSplit
)

// column lists the accepted header names for one field, compared
// case-insensitively.
type column []string

func (c column) find(cols colIndex) (int, bool) {
	for _, name := range c {
		if i, ok := cols[strings.ToLower(name)]; ok {
			return i, true
		}
	}

	return -1, false
}

// Profile describes the column layout of a statement export.
type Profile struct {
	Name       string
	Date       column
	Desc       column
	AmountMode amountMode
	Amount     column // amountSpend, amountSigned
	Debit      column // amountSplit
	Credit     column // amountSplit
}

func (p *Profile) required() []column {
	cols := []column{p.Date, p.Desc}

	switch p.AmountMode {
	case amountSpend, amountSigned:
		cols = append(cols, p.Amount)
	case amountSplit:
		cols = append(cols, p.Debit, p.Credit)
	}

	return cols
}

func (p *Profile) matches(cols colIndex) bool {
	for _, c := range p.required() {
		if _, ok := c.find(cols); !ok {
			return false
		}
	}

	return true
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:       "card statement",
		Date:       column{"Date", "Data", "Transaction Date"},
		Desc:       column{"Description", "Descrição", "Name", "Merchant"},
		AmountMode: amountSplit,
		Debit:      column{"Debit", "Débito"},
		Credit:     column{"Credit", "Crédito"},
	},
	{
		Name:       "bank account",
		Date:       column{"Data mov.", "Booking Date"},
		Desc:       column{"Descrição", "Description"},
		AmountMode: amountSigned,
		Amount:     column{"Montante", "Movimento"},
	},
	{
		Name:       "simple",
		Date:       column{"Date", "Timestamp", "Data"},
		Desc:       column{"Name", "Description", "Descrição", "Merchant"},
		AmountMode: amountSpend,
		Amount:     column{"Amount", "Value", "Montante"},
	},
}
