package schedule

import "time"

// Occurrences is the length of a full preview: the anchor plus five repeats.
const Occurrences = 6

// Project returns the anchor followed by up to five further publication
// instants for pattern. descriptor is only read for PatternCustom.
//
// Unknown patterns, PatternNone and custom descriptors that ParseInterval
// rejects all yield a single-element slice holding the anchor.
//
// Monthly steps keep the anchor's day of month and clamp it to the last day
// of shorter months (Jan 31 gives Feb 28, then Mar 31).
func Project(anchor time.Time, pattern Pattern, descriptor string) []time.Time {
	step, ok := stepFunc(pattern, descriptor)
	if !ok {
		return []time.Time{anchor}
	}

	out := make([]time.Time, 0, Occurrences)
	for k := range Occurrences {
		out = append(out, step(anchor, k))
	}
	return out
}

// stepFunc returns the k-th occurrence generator for pattern.
func stepFunc(pattern Pattern, descriptor string) (func(time.Time, int) time.Time, bool) {
	switch pattern {
	case PatternDaily:
		return everyDays(1), true
	case PatternWeekly:
		return everyDays(7), true
	case PatternBiweekly:
		return everyDays(14), true
	case PatternMonthly:
		return addMonthsClamped, true
	case PatternCustom:
		iv, ok := ParseInterval(descriptor)
		if !ok {
			return nil, false
		}
		return everyDays(iv.days()), true
	}
	return nil, false
}

func everyDays(n int) func(time.Time, int) time.Time {
	return func(anchor time.Time, k int) time.Time {
		return anchor.AddDate(0, 0, n*k)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
