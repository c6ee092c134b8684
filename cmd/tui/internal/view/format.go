package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
)

const dbTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

// FormatAmount formats a spend in dollars, e.g. "$12.50".
func FormatAmount(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatDate formats the short transaction date, e.g. "Mar 4, 2026".
func FormatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func lipglossColor(c color.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// textOn picks black or white text for legible contrast on bg.
func textOn(bg color.Color) lipgloss.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return lipgloss.Color("#000000")
	}

	return lipgloss.Color("#ffffff")
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)
