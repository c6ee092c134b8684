package view

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/receipt"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

// TransactionSavedMsg reports a committed transaction form.
type TransactionSavedMsg struct {
	Transaction *transaction.Transaction
	Err         error
}

type txDraft struct {
	name   string
	amount string
	date   string
	photo  string
}

type TransactionFormModel struct {
	CommonModel
	txService *transaction.Service
	resizer   *receipt.Resizer

	card   *card.Card
	draft  *txDraft
	form   *huh.Form
	saving bool
	err    error
}

func NewTransactionFormModel(txSvc *transaction.Service, resizer *receipt.Resizer, c *card.Card) TransactionFormModel {
	draft := &txDraft{date: time.Now().Format(dateLayout)}

	return TransactionFormModel{
		txService: txSvc,
		resizer:   resizer,
		card:      c,
		draft:     draft,
		form:      newTransactionForm(draft),
	}
}

func newTransactionForm(draft *txDraft) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("Groceries").
				Value(&draft.name),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Description("Anything that is not a number is saved as 0.").
				Value(&draft.amount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder(dateLayout).
				Value(&draft.date).
				Validate(func(s string) error {
					if _, err := parseFormDate(s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}

					return nil
				}),

			huh.NewInput().
				Key("photo").
				Title("Receipt photo (optional)").
				Placeholder("~/Pictures/receipt.jpg").
				Value(&draft.photo).
				Validate(validatePhotoPath),
		),
	).WithWidth(50).WithShowHelp(false)
}

// parseFormDate reads the date field in local time.
func parseFormDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + string(os.PathSeparator) + rest
		}
	}

	return path
}

func validatePhotoPath(s string) error {
	path := expandHome(s)
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.New("file not found")
	}

	if info.IsDir() {
		return errors.New("not a file")
	}

	return nil
}

func (m TransactionFormModel) Title() string { return "New Transaction" }

func (m TransactionFormModel) ShortHelp() string {
	return "Enter/Tab: next field | Esc: cancel"
}

func (m TransactionFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m TransactionFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		// After a failed save the draft is kept: Enter retries, any other
		// key reopens the form for editing.
		if m.err != nil {
			m.err = nil

			if msg.Type == tea.KeyEnter {
				m.saving = true
				return m, m.saveCmd()
			}

			m.form = newTransactionForm(m.draft)

			return m, m.form.Init()
		}

	case TransactionSavedMsg:
		m.saving = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
	}

	if m.saving || m.err != nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.saving = true

	return m, m.saveCmd()
}

func (m TransactionFormModel) saveCmd() tea.Cmd {
	d := *m.draft
	cardID := m.card.ID
	svc := m.txService
	resizer := m.resizer

	return func() tea.Msg {
		date, err := parseFormDate(d.date)
		if err != nil {
			return TransactionSavedMsg{Err: err}
		}

		var photo []byte

		if path := expandHome(d.photo); path != "" {
			f, err := os.Open(path)
			if err != nil {
				return TransactionSavedMsg{Err: err}
			}
			defer f.Close()

			photo, err = resizer.Process(f)
			if err != nil {
				return TransactionSavedMsg{Err: err}
			}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := svc.Create(ctx, cardID, transaction.CreateParams{
			Name:      strings.TrimSpace(d.name),
			Amount:    d.amount,
			Timestamp: date,
			PhotoData: photo,
		})

		return TransactionSavedMsg{Transaction: tx, Err: err}
	}
}

func (m TransactionFormModel) View() string {
	status := ""

	switch {
	case m.err != nil:
		status = errorStyle.Render(fmt.Sprintf("Error saving: %v", m.err)) + "\n" +
			faintStyle.Render("Enter: retry | other keys: edit | Esc: cancel") + "\n\n"
	case m.saving:
		status = faintStyle.Render("Saving...") + "\n\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(
		accentStyle.Render(fmt.Sprintf("%s on %s", m.Title(), m.card.Name)) + "\n\n" +
			status + m.form.View() + "\n\n" + faintStyle.Render(m.ShortHelp()),
	)
}
