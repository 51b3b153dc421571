package domain

import "time"

// Source is an RSS/Atom source registered in the CMS.
type Source struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Category    string     `json:"category,omitempty"`
	Language    string     `json:"language,omitempty"`
	Enabled     bool       `json:"enabled"`
	LastFetchAt *time.Time `json:"lastFetchAt,omitempty"`
}
