package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
)

const (
	cardWidth = 44
	// cardFade is the opacity the card gradient ends at.
	cardFade = 0.6
)

const emptyCardsPrompt = "You currently have no cards in the system."

// background the card gradient fades into.
var cardBackground = color.MustParse("#1c1c1c")

type cardsState int

const (
	cardsStateBrowse cardsState = iota
	cardsStateConfirmDelete
	cardsStateConfirmDeleteAll
)

// EditCardMsg asks for the card form. A nil Card creates a new one.
type EditCardMsg struct {
	Card *card.Card
}

// OpenCardMsg asks for the transactions of Card.
type OpenCardMsg struct {
	Card *card.Card
}

type cardItem struct {
	card  *card.Card
	color color.Color
}

func (i cardItem) FilterValue() string { return i.card.Name }

type CardsModel struct {
	CommonModel
	cardService *card.Service

	state  cardsState
	list   list.Model
	cards  []*card.Card
	stop   context.CancelFunc
	feed   <-chan live.Result[[]*card.Card]
	loaded bool
	status string
	err    error
}

// NewCardsModel subscribes to the card list. The subscription lasts until
// Close.
func NewCardsModel(cardSvc *card.Service) CardsModel {
	l := list.New([]list.Item{}, cardDelegate{}, cardWidth+4, 20)
	l.Title = "Cards"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ctx, cancel := context.WithCancel(context.Background())

	return CardsModel{
		cardService: cardSvc,
		list:        l,
		stop:        cancel,
		feed:        cardSvc.Watch(ctx),
	}
}

func (m CardsModel) Title() string { return "Cards" }

func (m CardsModel) ShortHelp() string {
	switch m.state {
	case cardsStateConfirmDelete, cardsStateConfirmDeleteAll:
		return "y: confirm | n/Esc: cancel"
	}

	return "Enter: transactions | n: new | e: edit | d: delete | D: delete all | Esc: back"
}

func (m CardsModel) Init() tea.Cmd {
	return m.next()
}

// Close ends the live subscription.
func (m CardsModel) Close() {
	if m.stop != nil {
		m.stop()
	}
}

type cardsMsg struct {
	res live.Result[[]*card.Card]
}

func (m CardsModel) next() tea.Cmd {
	return awaitLive(m.feed, func(r live.Result[[]*card.Card]) tea.Msg { return cardsMsg{res: r} })
}

type cardDeletedMsg struct {
	name string
	err  error
}

func (m CardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cardsMsg:
		m.loaded = true
		if msg.res.Err != nil {
			m.err = msg.res.Err
			return m, m.next()
		}

		m.err = nil
		m.cards = msg.res.Value
		m.refreshItems()

		return m, m.next()

	case cardDeletedMsg:
		m.state = cardsStateBrowse
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error deleting: %v", msg.err))
			return m, nil
		}

		m.status = okStyle.Render(fmt.Sprintf("Deleted %s.", msg.name))

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case cardsStateConfirmDelete, cardsStateConfirmDeleteAll:
			return m.updateConfirm(msg)
		}

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "n":
			return m, func() tea.Msg { return EditCardMsg{} }
		case "e":
			if c := m.selected(); c != nil {
				return m, func() tea.Msg { return EditCardMsg{Card: c} }
			}

			return m, nil
		case "enter":
			if c := m.selected(); c != nil {
				return m, func() tea.Msg { return OpenCardMsg{Card: c} }
			}

			return m, nil
		case "d":
			if m.selected() != nil {
				m.state = cardsStateConfirmDelete
			}

			return m, nil
		case "D":
			if len(m.cards) > 0 {
				m.state = cardsStateConfirmDeleteAll
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m CardsModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.state == cardsStateConfirmDeleteAll {
			return m, m.deleteAllCmd()
		}

		return m, m.deleteCmd(m.selected())
	case "n", "N", "esc":
		m.state = cardsStateBrowse
	}

	return m, nil
}

func (m CardsModel) selected() *card.Card {
	item, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return nil
	}

	return item.card
}

func (m *CardsModel) refreshItems() {
	items := make([]list.Item, len(m.cards))
	for i, c := range m.cards {
		items[i] = cardItem{card: c, color: m.cardService.ColorOf(c)}
	}

	m.list.SetItems(items)
}

func (m CardsModel) deleteCmd(c *card.Card) tea.Cmd {
	if c == nil {
		return nil
	}

	svc := m.cardService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return cardDeletedMsg{name: c.Name, err: svc.Delete(ctx, c)}
	}
}

func (m CardsModel) deleteAllCmd() tea.Cmd {
	svc := m.cardService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return cardDeletedMsg{name: "all cards", err: svc.DeleteAll(ctx)}
	}
}

func (m CardsModel) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading cards...")
	}

	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}

	if m.status != "" {
		b.WriteString(m.status + "\n\n")
	}

	switch {
	case len(m.cards) == 0:
		b.WriteString(faintStyle.Render(emptyCardsPrompt) + "\n\nPress n to add a card.")
	default:
		b.WriteString(m.list.View())
	}

	switch m.state {
	case cardsStateConfirmDelete:
		if c := m.selected(); c != nil {
			b.WriteString("\n\n" + accentStyle.Render(
				fmt.Sprintf("Delete %q and all of its transactions? (y/n)", c.Name)))
		}
	case cardsStateConfirmDeleteAll:
		b.WriteString("\n\n" + accentStyle.Render(
			fmt.Sprintf("Delete all %d cards and their transactions? (y/n)", len(m.cards))))
	}

	b.WriteString("\n\n" + faintStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// RenderCard draws a card tile in its colour, fading towards the bottom.
func RenderCard(c *card.Card, col color.Color, selected bool) string {
	limit := "No limit"
	if c.Limit != 0 {
		limit = fmt.Sprintf("Limit $%d", c.Limit)
	}

	lines := []string{
		c.Name,
		string(c.Type),
		"",
		c.Number,
		fmt.Sprintf("Valid Thru %s", c.Expiry()),
		limit,
	}

	rendered := make([]string, len(lines))

	for i, line := range lines {
		alpha := 1 - (1-cardFade)*float64(i)/float64(len(lines)-1)
		bg := col.Faded(cardBackground, alpha)

		rendered[i] = lipgloss.NewStyle().
			Width(cardWidth).
			Padding(0, 2).
			Background(lipglossColor(bg)).
			Foreground(textOn(bg)).
			Bold(i == 0).
			Render(line)
	}

	border := lipgloss.HiddenBorder()
	if selected {
		border = lipgloss.RoundedBorder()
	}

	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipglossColor(col)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rendered...))
}

type cardDelegate struct{}

func (d cardDelegate) Height() int                             { return 8 }
func (d cardDelegate) Spacing() int                            { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(cardItem)
	if !ok {
		return
	}

	fmt.Fprint(w, RenderCard(i.card, i.color, index == m.Index()))
}
