package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
)

// expiryYears is how many years ahead the expiration picker offers.
const expiryYears = 20

// CardSavedMsg reports a committed card form.
type CardSavedMsg struct {
	Card *card.Card
	Err  error
}

// cardDraft holds the form bindings. It lives behind a pointer so huh keeps
// writing to the same values while the model is copied by bubbletea.
type cardDraft struct {
	fields card.Fields
	color  string
}

type CardFormModel struct {
	CommonModel
	cardService *card.Service

	existing *card.Card
	draft    *cardDraft
	form     *huh.Form
	saving   bool
	err      error
}

// NewCardFormModel edits existing, or creates a new card when it is nil.
func NewCardFormModel(cardSvc *card.Service, existing *card.Card) CardFormModel {
	draft := &cardDraft{fields: card.FieldsFrom(existing, cardSvc.Codec(), time.Now())}
	if draft.fields.Color != nil {
		draft.color = draft.fields.Color.Hex()
	}

	return CardFormModel{
		cardService: cardSvc,
		existing:    existing,
		draft:       draft,
		form:        newCardForm(draft),
	}
}

// newCardForm binds a form to draft. Rebuilding it keeps every value typed
// so far.
func newCardForm(draft *cardDraft) *huh.Form {
	// keep an expired card's year selectable
	fromYear := min(time.Now().Year(), draft.fields.ExpYear)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Card name").
				Placeholder("Chase Sapphire").
				Value(&draft.fields.Name),

			huh.NewInput().
				Key("number").
				Title("Card number").
				Value(&draft.fields.Number),

			huh.NewInput().
				Key("limit").
				Title("Credit limit").
				Description("Whole dollars; anything else is saved as 0.").
				Value(&draft.fields.Limit),

			huh.NewSelect[card.Type]().
				Key("type").
				Title("Card type").
				Options(typeOptions()...).
				Value(&draft.fields.Type),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("exp_month").
				Title("Expiration month").
				Options(monthOptions()...).
				Value(&draft.fields.ExpMonth),

			huh.NewSelect[int]().
				Key("exp_year").
				Title("Expiration year").
				Options(yearOptions(fromYear)...).
				Value(&draft.fields.ExpYear),

			huh.NewInput().
				Key("color").
				Title("Card colour").
				Placeholder("#00ffff").
				Description("Hex colour such as #ff8800. Empty keeps the current one.").
				Value(&draft.color).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					_, err := color.Parse(strings.TrimSpace(s))

					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func typeOptions() []huh.Option[card.Type] {
	types := card.Types()

	opts := make([]huh.Option[card.Type], len(types))
	for i, t := range types {
		opts[i] = huh.NewOption(string(t), t)
	}

	return opts
}

func monthOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], 12)
	for m := 1; m <= 12; m++ {
		opts[m-1] = huh.NewOption(fmt.Sprintf("%02d - %s", m, time.Month(m)), m)
	}

	return opts
}

func yearOptions(from int) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, expiryYears+1)
	for y := from; y <= from+expiryYears; y++ {
		opts = append(opts, huh.NewOption(fmt.Sprint(y), y))
	}

	return opts
}

func (m CardFormModel) Title() string {
	if m.existing != nil {
		return "Edit Card"
	}

	return "New Card"
}

func (m CardFormModel) ShortHelp() string {
	return "Enter/Tab: next field | Esc: cancel"
}

func (m CardFormModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CardFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

			m.form = newCardForm(m.draft)

			return m, m.form.Init()
		}

	case CardSavedMsg:
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

func (m CardFormModel) saveCmd() tea.Cmd {
	f := m.draft.fields
	svc := m.cardService

	// The service writes through existing on success while other screens
	// still render it, so it gets a copy.
	var existing *card.Card
	if m.existing != nil {
		cp := *m.existing
		existing = &cp
	}

	if hex := strings.TrimSpace(m.draft.color); hex != "" {
		if c, err := color.Parse(hex); err == nil {
			f.Color = &c
		}
	} else {
		f.Color = nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := svc.CreateOrUpdate(ctx, existing, f)

		return CardSavedMsg{Card: c, Err: err}
	}
}

func (m CardFormModel) View() string {
	var preview string

	if m.existing != nil {
		preview = RenderCard(m.existing, m.cardService.ColorOf(m.existing), false) + "\n\n"
	}

	status := ""

	switch {
	case m.err != nil:
		status = errorStyle.Render(fmt.Sprintf("Error saving: %v", m.err)) + "\n" +
			faintStyle.Render("Enter: retry | other keys: edit | Esc: cancel") + "\n\n"
	case m.saving:
		status = faintStyle.Render("Saving...") + "\n\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(
		accentStyle.Render(m.Title()) + "\n\n" + preview + status + m.form.View() +
			"\n\n" + faintStyle.Render(m.ShortHelp()),
	)
}
