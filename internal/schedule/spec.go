package schedule

import (
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

// Spec is the schedule submitted for one article.
type Spec struct {
	Anchor              time.Time `json:"anchor"`
	Pattern             Pattern   `json:"pattern"`
	CustomIntervalValue int       `json:"customIntervalValue,omitempty"`
	CustomIntervalUnit  Unit      `json:"customIntervalUnit,omitempty"`
}

// NewSpec builds a Spec from operator input. For PatternCustom the free-text
// descriptor must parse; the preview path tolerates a bad descriptor but a
// submitted schedule does not.
func NewSpec(anchor time.Time, pattern Pattern, descriptor string) (Spec, error) {
	s := Spec{Anchor: anchor, Pattern: pattern}
	if pattern != PatternCustom {
		return s, nil
	}
	iv, ok := ParseInterval(descriptor)
	if !ok {
		return Spec{}, domain.NewValidationError("every", `custom interval must look like "N days" or "N weeks"`)
	}
	s.CustomIntervalValue = iv.Value
	s.CustomIntervalUnit = iv.Unit
	return s, nil
}

// Descriptor renders the custom interval in the form ParseInterval reads.
func (s Spec) Descriptor() string {
	if s.Pattern != PatternCustom {
		return ""
	}
	return Interval{Value: s.CustomIntervalValue, Unit: s.CustomIntervalUnit}.String()
}

// Preview projects the publication instants for the spec.
func (s Spec) Preview() []time.Time {
	return Project(s.Anchor, s.Pattern, s.Descriptor())
}

// Validate checks the spec at submission time.
func (s Spec) Validate(now time.Time) error {
	var v domain.Validator
	v.Check(!s.Anchor.IsZero(), "anchor", "is required")
	if !s.Anchor.IsZero() {
		v.Check(!s.Anchor.Before(now), "anchor", "must not be in the past (got %s)", s.Anchor.Format(time.RFC3339))
	}
	v.Check(s.Pattern.IsValid(), "pattern", "unknown pattern %q", s.Pattern)

	if s.Pattern == PatternCustom {
		v.Check(s.CustomIntervalValue > 0, "customIntervalValue", "must be a positive integer")
		v.Check(s.CustomIntervalUnit.IsValid(), "customIntervalUnit", "must be days or weeks")
	} else {
		v.Check(s.CustomIntervalValue == 0 && s.CustomIntervalUnit == "", "customIntervalValue",
			"only allowed with the custom pattern")
	}
	return v.Err()
}
