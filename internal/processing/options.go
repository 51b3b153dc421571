// Package processing describes AI processing jobs started from the console:
// which steps to run on a set of articles and the job lifecycle.
package processing

import (
	"fmt"
	"sort"
	"strings"
)

// Option names as the processing endpoint expects them.
const (
	OptSummarize        = "summarize"
	OptTranslate        = "translate"
	OptCategorize       = "categorize"
	OptExtractTags      = "extract_tags"
	OptDetectDuplicates = "detect_duplicates"
	OptGenerateSEO      = "generate_seo"
)

// Options selects the processing steps for a job. Every step the backend
// knows about has a field here; there is no free-form option map.
type Options struct {
	Summarize        bool
	Translate        bool
	Categorize       bool
	ExtractTags      bool
	DetectDuplicates bool
	GenerateSEO      bool
}

// AllOptionNames returns the accepted option names in wire order.
func AllOptionNames() []string {
	return []string{OptSummarize, OptTranslate, OptCategorize, OptExtractTags, OptDetectDuplicates, OptGenerateSEO}
}

func (o *Options) field(name string) *bool {
	switch name {
	case OptSummarize:
		return &o.Summarize
	case OptTranslate:
		return &o.Translate
	case OptCategorize:
		return &o.Categorize
	case OptExtractTags:
		return &o.ExtractTags
	case OptDetectDuplicates:
		return &o.DetectDuplicates
	case OptGenerateSEO:
		return &o.GenerateSEO
	}
	return nil
}

// ParseOptions builds Options from option names. Names are matched case
// insensitively and may use dashes in place of underscores.
func ParseOptions(names []string) (Options, error) {
	var o Options
	var unknown []string
	for _, raw := range names {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
		if name == "" {
			continue
		}
		f := o.field(name)
		if f == nil {
			unknown = append(unknown, raw)
			continue
		}
		*f = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Options{}, fmt.Errorf("unknown processing options %s (valid: %s)",
			strings.Join(unknown, ", "), strings.Join(AllOptionNames(), ", "))
	}
	return o, nil
}

// Names renders the enabled steps in wire order.
func (o Options) Names() []string {
	var out []string
	for _, name := range AllOptionNames() {
		if *o.field(name) {
			out = append(out, name)
		}
	}
	return out
}

// IsZero reports whether no step is enabled.
func (o Options) IsZero() bool {
	return o == Options{}
}

// MarshalJSON encodes the options as the wire object of booleans.
func (o Options) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range AllOptionNames() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%t", name, *o.field(name))
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
