package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/importer"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

const importTimeout = 2 * time.Minute

// previewRows is how many imported rows the result screen lists.
const previewRows = 10

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	card       *card.Card
	state      importState
	filePicker filepicker.Model
	imported   []*transaction.Transaction

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service, c *card.Card) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: impSvc,
		card:          c,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Enter: pick another file | Esc: back"
	}

	return "Enter: select | Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

type importResultMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == importStateResult {
			if msg.Type == tea.KeyEnter {
				m.state = importStateFilePick
				m.err = nil
				m.status = ""
				m.imported = nil

				return m, m.filePicker.Init()
			}

			return m, nil
		}

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.imported = msg.txs
		m.status = fmt.Sprintf("Imported %d transactions into %s.", len(msg.txs), m.card.Name)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	svc := m.importService
	cardID := m.card.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := svc.Import(ctx, cardID, f)

		return importResultMsg{txs: txs, err: err}
	}
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			accentStyle.Render(fmt.Sprintf("Select a statement to import into %s", m.card.Name)) +
				"\n\n" + m.filePicker.View() + "\n\n" + faintStyle.Render(m.ShortHelp()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n" + faintStyle.Render(m.ShortHelp()))
	}

	var b strings.Builder

	b.WriteString(okStyle.Render(m.status) + "\n\n")

	for i, tx := range m.imported {
		if i == previewRows {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  ... and %d more", len(m.imported)-previewRows)) + "\n")
			break
		}

		fmt.Fprintf(&b, "  %-13s %10s  %s\n", FormatDate(tx.Timestamp), FormatAmount(float64(tx.Amount)), tx.Name)
	}

	fmt.Fprintf(&b, "\nTotal: %s\n\n", FormatAmount(transaction.Total(m.imported)))
	b.WriteString(faintStyle.Render(m.ShortHelp()))

	return style.Render(b.String())
}
