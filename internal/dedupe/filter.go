package dedupe

import (
	"net/url"
	"strconv"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

const (
	MinSimilarityThreshold = 0.5
	MaxSimilarityThreshold = 1.0
	MaxDateRangeDays       = 365
)

// Filter holds the detector request knobs. They are sent as query
// parameters; nothing here is computed locally.
type Filter struct {
	SimilarityThreshold float64
	DateRangeDays       int
	RiskLevel           RiskLevel
	IncludeProcessed    bool
}

// DefaultFilter matches the detector's own defaults.
func DefaultFilter() Filter {
	return Filter{SimilarityThreshold: 0.8, DateRangeDays: 7}
}

// Validate checks the knob ranges before a request is issued.
func (f Filter) Validate() error {
	var v domain.Validator
	v.Check(f.SimilarityThreshold >= MinSimilarityThreshold && f.SimilarityThreshold <= MaxSimilarityThreshold,
		"similarityThreshold", "must be between %.1f and %.1f, got %.2f",
		MinSimilarityThreshold, MaxSimilarityThreshold, f.SimilarityThreshold)
	v.Check(f.DateRangeDays >= 1 && f.DateRangeDays <= MaxDateRangeDays,
		"dateRangeDays", "must be between 1 and %d, got %d", MaxDateRangeDays, f.DateRangeDays)
	v.Check(f.RiskLevel == "" || f.RiskLevel.IsValid(), "riskLevel", "unknown risk level %q", f.RiskLevel)
	return v.Err()
}

// Query renders the filter as detector query parameters.
func (f Filter) Query() url.Values {
	q := url.Values{}
	q.Set("similarity_threshold", strconv.FormatFloat(f.SimilarityThreshold, 'f', -1, 64))
	q.Set("date_range_days", strconv.Itoa(f.DateRangeDays))
	if f.RiskLevel != "" {
		q.Set("risk_level", string(f.RiskLevel))
	}
	q.Set("include_processed", strconv.FormatBool(f.IncludeProcessed))
	return q
}
