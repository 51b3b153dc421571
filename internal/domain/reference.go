package domain

import (
	"fmt"
	"strings"
	"time"
)

// RefKind names a family of reference data the editor forms pick from.
type RefKind string

const (
	RefAuthors    RefKind = "authors"
	RefCategories RefKind = "categories"
	RefTags       RefKind = "tags"
)

// AllRefKinds returns every reference kind in display order.
func AllRefKinds() []RefKind {
	return []RefKind{RefAuthors, RefCategories, RefTags}
}

func (k RefKind) String() string { return string(k) }

func (k RefKind) IsValid() bool {
	switch k {
	case RefAuthors, RefCategories, RefTags:
		return true
	}
	return false
}

// ParseRefKind accepts the plural kind name, its singular form, or any casing of either.
func ParseRefKind(s string) (RefKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range AllRefKinds() {
		if s == string(k) || s+"s" == string(k) || (k == RefCategories && s == "category") {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown reference kind %q (valid: authors, categories, tags)", s)
}

// RefItem is one author, category or tag.
type RefItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	FetchedAt time.Time `json:"-"`
}
