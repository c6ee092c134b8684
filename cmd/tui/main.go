package main

import (
	"database/sql"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendingtracker/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	cardStore "github.com/MrJamesThe3rd/spendingtracker/internal/card/store"
	"github.com/MrJamesThe3rd/spendingtracker/internal/config"
	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/export"
	"github.com/MrJamesThe3rd/spendingtracker/internal/importer"
	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
	"github.com/MrJamesThe3rd/spendingtracker/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendingtracker/internal/matching/store"
	"github.com/MrJamesThe3rd/spendingtracker/internal/receipt"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendingtracker/internal/transaction/store"
)

// closer is implemented by screens holding a live subscription.
type closer interface {
	Close()
}

type model struct {
	appName       string
	cardService   *card.Service
	txService     *transaction.Service
	importService *importer.Service
	exportService *export.Service
	resizer       *receipt.Resizer

	// screens is the navigation stack; the last entry is shown.
	screens []view.View
	size    tea.WindowSizeMsg
}

func newModel(cfg *config.Config, db *sql.DB) model {
	feed := live.NewFeed()

	cardSvc := card.NewService(cardStore.New(db, cfg.DB.Driver), feed)
	txSvc := transaction.NewService(txStore.New(db, cfg.DB.Driver), feed)
	nameRules := matching.NewService(matchingStore.New(db, cfg.DB.Driver))

	return model{
		appName:       cfg.App.Name,
		cardService:   cardSvc,
		txService:     txSvc,
		importService: importer.NewService(txSvc, importer.WithNameRules(nameRules)),
		exportService: export.NewService(cardSvc, txSvc),
		resizer:       receipt.NewResizer(cfg.Receipt.MaxSize, cfg.Receipt.JPEGQuality),
		screens:       []view.View{view.NewCardsModel(cardSvc)},
	}
}

func (m model) Init() tea.Cmd {
	return m.current().Init()
}

func (m model) current() view.View {
	return m.screens[len(m.screens)-1]
}

// push shows v on top of the stack, sized to the terminal.
func (m model) push(v view.View) (tea.Model, tea.Cmd) {
	cmd := v.Init()

	if m.size.Width > 0 {
		sized, sizeCmd := v.Update(m.size)
		v = sized.(view.View)
		cmd = tea.Batch(cmd, sizeCmd)
	}

	m.screens = append(m.screens, v)

	return m, cmd
}

// pop closes the top screen. Leaving the root quits.
func (m model) pop() (tea.Model, tea.Cmd) {
	if c, ok := m.current().(closer); ok {
		c.Close()
	}

	if len(m.screens) == 1 {
		return m, tea.Quit
	}

	m.screens = m.screens[:len(m.screens)-1]

	return m, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			for _, s := range m.screens {
				if c, ok := s.(closer); ok {
					c.Close()
				}
			}

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.size = msg

	case view.BackMsg:
		return m.pop()

	case view.EditCardMsg:
		return m.push(view.NewCardFormModel(m.cardService, msg.Card))

	case view.OpenCardMsg:
		header := view.RenderCard(msg.Card, m.cardService.ColorOf(msg.Card), false)
		return m.push(view.NewTransactionsModel(m.txService, m.exportService, msg.Card, header))

	case view.NewTransactionMsg:
		return m.push(view.NewTransactionFormModel(m.txService, m.resizer, msg.Card))

	case view.ImportStatementMsg:
		return m.push(view.NewImportModel(m.importService, msg.Card))

	case view.CardSavedMsg:
		if msg.Err == nil {
			slog.Info("card saved", "id", msg.Card.ID, "name", msg.Card.Name)
			return m.pop()
		}

		slog.Error("failed to save card", "error", msg.Err)

	case view.TransactionSavedMsg:
		if msg.Err == nil {
			slog.Info("transaction saved", "id", msg.Transaction.ID, "card_id", msg.Transaction.CardID)
			return m.pop()
		}

		slog.Error("failed to save transaction", "error", msg.Err)
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		updated, cmd := m.current().Update(msg)
		m.screens[len(m.screens)-1] = updated.(view.View)

		return m, cmd
	}

	// Screens below the top keep receiving their live query results.
	screens := make([]view.View, len(m.screens))
	cmds := make([]tea.Cmd, 0, len(m.screens))

	for i, s := range m.screens {
		updated, cmd := s.Update(msg)
		screens[i] = updated.(view.View)
		cmds = append(cmds, cmd)
	}

	m.screens = screens

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	title := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(m.appName + " / " + m.current().Title())

	return title + "\n" + m.current().View()
}

// openLogFile returns the TUI log destination; the terminal is taken by the UI.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		path = os.DevNull
	}

	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := openLogFile(cfg.App.TUILogPath)
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.App.TUILogPath, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(cfg.NewLogger(logFile))

	db, err := database.Open(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	p := tea.NewProgram(newModel(cfg, db), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
