// Package dedupe holds the operator-side state for reviewing near-duplicate
// content groups reported by the CMS duplicate detector and resolving them.
package dedupe

import (
	"fmt"
	"strings"
	"time"
)

// RiskLevel is the detector's estimate of how risky deleting the duplicates
// is. It is informational and never gates a resolve.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) String() string { return string(r) }

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// ParseRiskLevel accepts any casing. "" and "all" mean no risk filter.
func ParseRiskLevel(s string) (RiskLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", nil
	}
	r := RiskLevel(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown risk level %q (valid: low, medium, high)", s)
	}
	return r, nil
}

// ContentItem is an article as the detector reports it.
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"sourceName,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// DetectionDetail explains why an item was matched against the primary.
type DetectionDetail struct {
	Similarity float64  `json:"similarity"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

// DuplicateItem is an item proposed for deletion.
type DuplicateItem struct {
	ContentItem
	Detection DetectionDetail `json:"detection"`
}

// Group is one cluster: a primary to keep and the duplicates to delete.
type Group struct {
	ID         string          `json:"groupId"`
	Primary    ContentItem     `json:"primaryItem"`
	Duplicates []DuplicateItem `json:"duplicateItems"`
	RiskLevel  RiskLevel       `json:"riskLevel"`
}

// DuplicateIDs returns the ids of the items a resolve would delete, in order.
func (g Group) DuplicateIDs() []string {
	ids := make([]string, len(g.Duplicates))
	for i, d := range g.Duplicates {
		ids[i] = d.ID
	}
	return ids
}

// MaxSimilarity is the highest similarity among the group's duplicates.
func (g Group) MaxSimilarity() float64 {
	var m float64
	for _, d := range g.Duplicates {
		m = max(m, d.Detection.Similarity)
	}
	return m
}

// ResolveRequest asks the backend to keep PrimaryID and delete DuplicateIDs.
type ResolveRequest struct {
	GroupID      string   `json:"groupId"`
	PrimaryID    string   `json:"primaryId"`
	DuplicateIDs []string `json:"duplicateIds"`
}

// NewResolveRequest builds the request that keeps the group's primary.
func NewResolveRequest(g Group) ResolveRequest {
	return ResolveRequest{GroupID: g.ID, PrimaryID: g.Primary.ID, DuplicateIDs: g.DuplicateIDs()}
}
