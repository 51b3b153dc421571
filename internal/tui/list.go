package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
)

// publishedLabel renders an item's publication time relative to now for the
// last week and as a date before that.
func publishedLabel(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return "published " + t.Format("Jan 2, 15:04")
	case d < time.Minute:
		return "published just now"
	case d < time.Hour:
		return fmt.Sprintf("published %dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("published %dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("published %dd ago", int(d.Hours()/24))
	default:
		return "published " + t.Format("Jan 2, 2006")
	}
}

func riskStyleFor(r dedupe.RiskLevel) string {
	switch r {
	case dedupe.RiskHigh:
		return riskHighStyle.Render(string(r))
	case dedupe.RiskMedium:
		return riskMediumStyle.Render(string(r))
	case dedupe.RiskLow:
		return riskLowStyle.Render(string(r))
	}
	return itemTimeStyle.Render("?")
}

func renderListItem(g dedupe.Group, current, checked bool, width int) string {
	if width < 10 {
		width = 30
	}

	box := checkOffStyle.Render("[ ]")
	if checked {
		box = checkOnStyle.Render("[x]")
	}

	var title string
	if current {
		title = itemSelectedStyle.Render("> ") + box + " " + itemSelectedStyle.Render(truncateStr(g.Primary.Title, width-8))
	} else {
		title = "  " + box + " " + itemTitleStyle.Render(truncateStr(g.Primary.Title, width-8))
	}

	meta := fmt.Sprintf("      %s %s %s",
		itemSourceStyle.Render(fmt.Sprintf("%d dup", len(g.Duplicates))),
		itemTimeStyle.Render(fmt.Sprintf("· %.0f%% ·", g.MaxSimilarity()*100)),
		riskStyleFor(g.RiskLevel))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(groups []dedupe.Group, isChecked func(string) bool, cursor, height, width int) string {
	if len(groups) == 0 {
		return lipglossCenter("No duplicate groups", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := max(height/itemHeight, 1)

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(groups) {
		end = len(groups)
		start = max(end-visible, 0)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(groups[i], i == cursor, isChecked(groups[i].ID), width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max((width-len(s))/2, 0)) + s
}
