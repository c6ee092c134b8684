package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/export"
	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

type txState int

const (
	txStateList txState = iota
	txStateConfirmDelete
)

// NewTransactionMsg asks for the transaction form for Card.
type NewTransactionMsg struct {
	Card *card.Card
}

// ImportStatementMsg asks for the statement import for Card.
type ImportStatementMsg struct {
	Card *card.Card
}

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	return fmt.Sprintf("%-13s %10s  %s", FormatDate(i.tx.Timestamp), FormatAmount(float64(i.tx.Amount)), i.tx.Name)
}

func (i txItem) Description() string {
	if i.tx.HasPhoto() {
		return fmt.Sprintf("Receipt attached (%d KB)", (len(i.tx.PhotoData)+1023)/1024)
	}

	return ""
}

func (i txItem) FilterValue() string {
	return i.tx.Name
}

type TransactionsModel struct {
	CommonModel
	txService     *transaction.Service
	exportService *export.Service

	card   *card.Card
	header string
	state  txState
	list   list.Model
	txs    []*transaction.Transaction
	stop   context.CancelFunc
	feed   <-chan live.Result[[]*transaction.Transaction]
	loaded bool
	status string
}

// NewTransactionsModel subscribes to the transactions of c. The
// subscription lasts until Close.
func NewTransactionsModel(txSvc *transaction.Service, exportSvc *export.Service, c *card.Card, header string) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ctx, cancel := context.WithCancel(context.Background())

	return TransactionsModel{
		txService:     txSvc,
		exportService: exportSvc,
		card:          c,
		header:        header,
		list:          l,
		stop:          cancel,
		feed:          txSvc.Watch(ctx, c.ID),
	}
}

func (m TransactionsModel) Title() string { return m.card.Name }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateConfirmDelete {
		return "y: confirm | n/Esc: cancel"
	}

	return "n: new | i: import statement | x: export | d: delete | /: filter | Esc: back"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.next()
}

// Close ends the live subscription.
func (m TransactionsModel) Close() {
	if m.stop != nil {
		m.stop()
	}
}

type txsMsg struct {
	res live.Result[[]*transaction.Transaction]
}

func (m TransactionsModel) next() tea.Cmd {
	return awaitLive(m.feed, func(r live.Result[[]*transaction.Transaction]) tea.Msg { return txsMsg{res: r} })
}

type txDeletedMsg struct {
	err error
}

type exportedMsg struct {
	path  string
	count int
	err   error
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txsMsg:
		m.loaded = true
		if msg.res.Err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error: %v", msg.res.Err))
			return m, m.next()
		}

		m.txs = msg.res.Value
		m.refreshListItems()

		return m, m.next()

	case txDeletedMsg:
		m.state = txStateList
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error deleting: %v", msg.err))
			return m, nil
		}

		m.status = okStyle.Render("Deleted.")

		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error exporting: %v", msg.err))
			return m, nil
		}

		m.status = okStyle.Render(fmt.Sprintf("Exported %d transactions to %s", msg.count, msg.path))

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-14)

		return m, nil

	case tea.KeyMsg:
		if m.state == txStateConfirmDelete {
			return m.updateConfirm(msg)
		}

		if m.list.FilterState() == list.Filtering {
			break // let the list handle it
		}

		switch msg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "n":
			c := m.card
			return m, func() tea.Msg { return NewTransactionMsg{Card: c} }
		case "i":
			c := m.card
			return m, func() tea.Msg { return ImportStatementMsg{Card: c} }
		case "x":
			m.status = faintStyle.Render("Exporting...")
			return m, m.exportCmd()
		case "d":
			if m.selected() != nil {
				m.state = txStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		tx := m.selected()
		if tx == nil {
			m.state = txStateList
			return m, nil
		}

		svc := m.txService

		return m, func() tea.Msg {
			ctx, cancel := DbCtx()
			defer cancel()

			return txDeletedMsg{err: svc.Delete(ctx, tx)}
		}
	case "n", "N", "esc":
		m.state = txStateList
	}

	return m, nil
}

// exportCmd writes the card archive into the working directory.
func (m TransactionsModel) exportCmd() tea.Cmd {
	svc := m.exportService
	c := m.card

	return func() tea.Msg {
		dir, err := os.Getwd()
		if err != nil {
			return exportedMsg{err: err}
		}

		name := fmt.Sprintf("%s_%s.zip", strings.ReplaceAll(c.Name, string(os.PathSeparator), "_"), time.Now().Format("20060102"))
		path := filepath.Join(dir, name)

		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		_, items, err := svc.Export(ctx, c.ID, f)
		if err != nil {
			_ = os.Remove(path)
			return exportedMsg{err: err}
		}

		return exportedMsg{path: path, count: len(items)}
	}
}

func (m TransactionsModel) selected() *transaction.Transaction {
	item, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return nil
	}

	return item.tx
}

func (m *TransactionsModel) refreshListItems() {
	items := make([]list.Item, len(m.txs))
	for i, tx := range m.txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

func (m TransactionsModel) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	summary := fmt.Sprintf("%d transactions  |  Total spent: %s",
		len(m.txs), accentStyle.Render(FormatAmount(transaction.Total(m.txs))))

	body := m.list.View()
	if len(m.txs) == 0 {
		body = faintStyle.Render("No transactions yet. Press n to add one or i to import a statement.")
	}

	parts := []string{m.header, summary}

	if m.status != "" {
		parts = append(parts, m.status)
	}

	parts = append(parts, body)

	if m.state == txStateConfirmDelete {
		if tx := m.selected(); tx != nil {
			parts = append(parts, accentStyle.Render(fmt.Sprintf("Delete %q? (y/n)", tx.Name)))
		}
	}

	parts = append(parts, faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, joinSpaced(parts)...))
}

// joinSpaced puts a blank line between parts.
func joinSpaced(parts []string) []string {
	out := make([]string, 0, len(parts)*2)

	for i, p := range parts {
		if i > 0 {
			out = append(out, "")
		}

		out = append(out, p)
	}

	return out
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = accentStyle.Bold(true).Render("> " + title)
	} else {
		title = "  " + title
	}

	fmt.Fprintf(w, "  %s\n", title)

	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", faintStyle.Render(desc))
}
