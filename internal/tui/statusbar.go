package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(shown, total, selected int, note string, width int, m mode) string {
	left := fmt.Sprintf(" %d groups", total)
	if shown != total {
		left = fmt.Sprintf(" %d/%d groups", shown, total)
	}
	if selected > 0 {
		left += fmt.Sprintf(" · %s", lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(fmt.Sprintf("%d selected", selected)))
	}
	if note != "" {
		left += " · " + note
	}

	var right string
	switch m {
	case modeSearch:
		right = " esc clear  enter done "
	case modeFilter:
		right = " tab field  +/- change  enter apply  esc cancel "
	default:
		right = " space select  d resolve  D resolve selected  f filter  ? help "
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
