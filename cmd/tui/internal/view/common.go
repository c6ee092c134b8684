package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/spendingtracker/internal/live"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// awaitLive blocks on the next result of a live query and wraps it as a
// message. A closed channel yields no message.
func awaitLive[T any](ch <-chan live.Result[T], wrap func(live.Result[T]) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}

		return wrap(res)
	}
}
