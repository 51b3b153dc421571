// Package schedule projects recurring publication dates and validates the
// schedules an operator submits for an article.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pattern is the recurrence cadence of a scheduled publication.
type Pattern string

const (
	PatternNone     Pattern = "none"
	PatternDaily    Pattern = "daily"
	PatternWeekly   Pattern = "weekly"
	PatternBiweekly Pattern = "biweekly"
	PatternMonthly  Pattern = "monthly"
	PatternCustom   Pattern = "custom"
)

// AllPatterns returns the recognised patterns in menu order.
func AllPatterns() []Pattern {
	return []Pattern{PatternNone, PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly, PatternCustom}
}

func (p Pattern) String() string { return string(p) }

func (p Pattern) IsValid() bool {
	switch p {
	case PatternNone, PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly, PatternCustom:
		return true
	}
	return false
}

// ParsePattern accepts any casing; an empty string means PatternNone.
func ParsePattern(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PatternNone, nil
	}
	p := Pattern(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown pattern %q (valid: none, daily, weekly, biweekly, monthly, custom)", s)
	}
	return p, nil
}

// Unit is the step unit of a custom interval.
type Unit string

const (
	UnitDays  Unit = "days"
	UnitWeeks Unit = "weeks"
)

func (u Unit) IsValid() bool {
	return u == UnitDays || u == UnitWeeks
}

// Interval is a parsed custom step such as "3 days".
type Interval struct {
	Value int
	Unit  Unit
}

func (i Interval) String() string {
	return fmt.Sprintf("%d %s", i.Value, i.Unit)
}

// days returns the interval length in calendar days.
func (i Interval) days() int {
	if i.Unit == UnitWeeks {
		return i.Value * 7
	}
	return i.Value
}

var firstNumber = regexp.MustCompile(`\d+`)

// ParseInterval reads a free-text descriptor like "every 3 days" or "2 weeks".
// The unit is found by case-insensitive substring ("day" wins over "week"),
// and the first integer in the text is the step count, defaulting to 1.
// ok is false when no unit is present or the count is zero.
func ParseInterval(descriptor string) (Interval, bool) {
	lower := strings.ToLower(descriptor)

	var unit Unit
	switch {
	case strings.Contains(lower, "day"):
		unit = UnitDays
	case strings.Contains(lower, "week"):
		unit = UnitWeeks
	default:
		return Interval{}, false
	}

	n := 1
	if m := firstNumber.FindString(lower); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 {
			return Interval{}, false
		}
		n = v
	}
	return Interval{Value: n, Unit: unit}, true
}
