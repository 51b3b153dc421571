package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestPublishedLabel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "published just now"},
		{now.Add(-5 * time.Minute), "published 5m ago"},
		{now.Add(-3 * time.Hour), "published 3h ago"},
		{now.Add(-2 * 24 * time.Hour), "published 2d ago"},
		{time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC), "published Dec 24, 2025"},
		{now.Add(90 * time.Minute), "published Mar 10, 13:30"},
	}
	for _, tt := range tests {
		got := publishedLabel(tt.t, now)
		if got != tt.want {
			t.Errorf("publishedLabel(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestPreviewShowsPublishedAge(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	g := &dedupe.Group{
		ID:      "g1",
		Primary: dedupe.ContentItem{ID: "a1", Title: "Budget vote", Source: "Wire", PublishedAt: now.Add(-3 * time.Hour)},
		Duplicates: []dedupe.DuplicateItem{
			{ContentItem: dedupe.ContentItem{ID: "a2", Title: "Budget vote again", PublishedAt: now.Add(-20 * time.Minute)}},
		},
	}
	out := renderPreview(g, now, 80, 40, 0)
	for _, want := range []string{"Wire · published 3h ago · id a1", "published 20m ago · id a2"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

func TestRenderListMarksSelection(t *testing.T) {
	groups := []dedupe.Group{
		{ID: "g1", Primary: dedupe.ContentItem{Title: "First"}},
		{ID: "g2", Primary: dedupe.ContentItem{Title: "Second"}},
	}
	out := renderList(groups, func(id string) bool { return id == "g2" }, 0, 30, 40)
	if strings.Count(out, "[x]") != 1 || strings.Count(out, "[ ]") != 1 {
		t.Errorf("expected one checked and one unchecked box:\n%s", out)
	}
}

func TestRenderListEmpty(t *testing.T) {
	out := renderList(nil, func(string) bool { return false }, 0, 9, 40)
	if !strings.Contains(out, "No duplicate groups") {
		t.Errorf("unexpected empty list render %q", out)
	}
}

func TestPlainText(t *testing.T) {
	got := plainText("<p>Rates <b>rise</b> &amp; markets fall</p>")
	if got != "Rates rise & markets fall" {
		t.Errorf("plainText = %q", got)
	}
}
