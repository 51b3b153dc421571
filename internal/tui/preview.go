package tui

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
	"github.com/microcosm-cc/bluemonday"
)

var excerptPolicy = bluemonday.StrictPolicy()

// plainText strips markup from detector excerpts before they are wrapped.
func plainText(s string) string {
	s = html.UnescapeString(excerptPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func itemMeta(it dedupe.ContentItem, now time.Time) string {
	var parts []string
	if it.Source != "" {
		parts = append(parts, it.Source)
	}
	if !it.PublishedAt.IsZero() {
		parts = append(parts, publishedLabel(it.PublishedAt, now))
	}
	parts = append(parts, "id "+it.ID)
	return strings.Join(parts, " · ")
}

func renderPreview(g *dedupe.Group, now time.Time, width, height, scroll int) string {
	if g == nil {
		return lipglossCenter("Select a group", width, height)
	}

	contentWidth := max(width-2, 10)

	var blocks []string
	blocks = append(blocks,
		previewSectionStyle.Render("KEEP")+"  "+riskStyleFor(g.RiskLevel)+itemTimeStyle.Render(" risk · group "+g.ID),
		previewTitleStyle.Width(contentWidth).Render(g.Primary.Title),
		previewSourceStyle.Render(itemMeta(g.Primary, now)),
	)
	if ex := plainText(g.Primary.Excerpt); ex != "" {
		blocks = append(blocks, previewBodyStyle.Width(contentWidth).Render(wrapText(ex, contentWidth)))
	}
	if g.Primary.URL != "" {
		blocks = append(blocks, previewLinkStyle.Width(contentWidth).Render(g.Primary.URL))
	}

	blocks = append(blocks, "", previewSectionStyle.Render(fmt.Sprintf("DELETE (%d)", len(g.Duplicates))))
	for _, d := range g.Duplicates {
		det := fmt.Sprintf("similarity %.0f%% · confidence %.0f%%", d.Detection.Similarity*100, d.Detection.Confidence*100)
		blocks = append(blocks,
			"",
			itemTitleStyle.Width(contentWidth).Render("- "+d.Title),
			"  "+previewSourceStyle.Render(itemMeta(d.ContentItem, now)),
			"  "+itemTimeStyle.Render(det),
		)
		if len(d.Detection.Reasons) > 0 {
			blocks = append(blocks, "  "+previewBodyStyle.Width(contentWidth-2).Render(
				wrapText("why: "+strings.Join(d.Detection.Reasons, "; "), contentWidth-2)))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
