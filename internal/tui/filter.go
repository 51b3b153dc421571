package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
)

type filterField int

const (
	fieldThreshold filterField = iota
	fieldDays
	fieldRisk
	fieldProcessed
	fieldCount
)

const thresholdStep = 0.05

var riskCycle = []dedupe.RiskLevel{"", dedupe.RiskLow, dedupe.RiskMedium, dedupe.RiskHigh}

// filterBar edits a draft of the detector knobs. The draft only reaches the
// selector when the operator applies it.
type filterBar struct {
	draft      dedupe.Filter
	field      filterField
	filterMode bool
}

func newFilterBar(f dedupe.Filter) filterBar {
	return filterBar{draft: f}
}

func (f *filterBar) next() { f.field = (f.field + 1) % fieldCount }
func (f *filterBar) prev() { f.field = (f.field + fieldCount - 1) % fieldCount }

// adjust moves the current field one step in direction dir (+1 or -1).
func (f *filterBar) adjust(dir int) {
	switch f.field {
	case fieldThreshold:
		v := f.draft.SimilarityThreshold + float64(dir)*thresholdStep
		v = math.Round(v*100) / 100
		f.draft.SimilarityThreshold = min(max(v, dedupe.MinSimilarityThreshold), dedupe.MaxSimilarityThreshold)
	case fieldDays:
		f.draft.DateRangeDays = min(max(f.draft.DateRangeDays+dir, 1), dedupe.MaxDateRangeDays)
	case fieldRisk:
		idx := 0
		for i, r := range riskCycle {
			if r == f.draft.RiskLevel {
				idx = i
			}
		}
		idx = (idx + dir + len(riskCycle)) % len(riskCycle)
		f.draft.RiskLevel = riskCycle[idx]
	case fieldProcessed:
		f.draft.IncludeProcessed = !f.draft.IncludeProcessed
	}
}

func riskLabel(r dedupe.RiskLevel) string {
	if r == "" {
		return "all"
	}
	return string(r)
}

func (f *filterBar) labels() []string {
	processed := "no"
	if f.draft.IncludeProcessed {
		processed = "yes"
	}
	return []string{
		fmt.Sprintf("similarity ≥ %.2f", f.draft.SimilarityThreshold),
		fmt.Sprintf("last %dd", f.draft.DateRangeDays),
		"risk " + riskLabel(f.draft.RiskLevel),
		"processed " + processed,
	}
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")

	var parts []string
	for i, label := range f.labels() {
		style := tabInactiveStyle
		if f.filterMode && filterField(i) == f.field {
			style = tabActiveStyle
			label = "[" + label + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
