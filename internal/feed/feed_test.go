package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>City Desk</title>
  <link>https://citydesk.example</link>
  <description>Local news</description>
  <item>
    <title>Council approves budget</title>
    <link>https://citydesk.example/budget</link>
    <description><![CDATA[<p>The council <b>voted</b> 7&ndash;2 &amp; adjourned.</p>]]></description>
    <pubDate>Tue, 04 Mar 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Bridge closed for repairs</title>
    <link>https://citydesk.example/bridge</link>
    <description>Expect delays.</description>
    <pubDate>Wed, 05 Mar 2025 08:30:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func TestArticleID(t *testing.T) {
	id1 := articleID("https://example.com/post-1")
	id2 := articleID("https://example.com/post-2")
	id1again := articleID("https://example.com/post-1")

	if id1 == id2 {
		t.Error("different URLs should produce different IDs")
	}
	if id1 != id1again {
		t.Error("same URL should produce same ID")
	}
	if len(id1) != 32 {
		t.Errorf("expected 32-char hex string, got %d chars: %s", len(id1), id1)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	input := "こんにちは世界です"
	got := truncate(input, 5)
	want := "こん..."
	if got != want {
		t.Errorf("truncate(%q, 5) = %q, want %q", input, got, want)
	}
}

func TestPlain(t *testing.T) {
	c := NewRSSChecker()
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
		{"Fish &amp; chips", "Fish & chips"},
		{"<script>alert(1)</script>Safe", "Safe"},
	}
	for _, tt := range tests {
		got := c.plain(tt.input)
		if got != tt.want {
			t.Errorf("plain(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(sampleRSS))
		case "/broken":
			_, _ = w.Write([]byte("not a feed"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	srv := feedServer(t)
	c := NewRSSChecker()

	rep, err := c.Check(context.Background(), domain.Source{Name: "City Desk", URL: srv.URL + "/rss"})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if rep.Title != "City Desk" {
		t.Errorf("expected title City Desk, got %q", rep.Title)
	}
	if rep.ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", rep.ItemCount)
	}
	if len(rep.Latest) != 2 {
		t.Fatalf("expected 2 latest items, got %d", len(rep.Latest))
	}
	// Newest first
	if rep.Latest[0].Title != "Bridge closed for repairs" {
		t.Errorf("expected newest item first, got %q", rep.Latest[0].Title)
	}
	if !rep.Newest.Equal(rep.Latest[0].Published) {
		t.Errorf("Newest = %v, want %v", rep.Newest, rep.Latest[0].Published)
	}
	excerpt := rep.Latest[1].Excerpt
	if strings.Contains(excerpt, "<") || !strings.Contains(excerpt, "voted") || !strings.Contains(excerpt, "& adjourned") {
		t.Errorf("unexpected excerpt %q", excerpt)
	}
}

func TestCheckInvalidFeed(t *testing.T) {
	srv := feedServer(t)
	c := NewRSSChecker()

	_, err := c.Check(context.Background(), domain.Source{Name: "Broken", URL: srv.URL + "/broken"})
	if err == nil {
		t.Fatal("expected error for invalid feed")
	}
	if !strings.Contains(err.Error(), "Broken") {
		t.Errorf("error should name the source: %v", err)
	}
}

type stubChecker map[string]error

func (s stubChecker) Check(_ context.Context, src domain.Source) (Report, error) {
	if err := s[src.URL]; err != nil {
		return Report{}, err
	}
	return Report{Source: src, Title: src.Name}, nil
}

func TestCheckAllKeepsOrderAndCollectsErrors(t *testing.T) {
	sources := []domain.Source{
		{Name: "a", URL: "https://a.example/rss"},
		{Name: "b", URL: "https://b.example/rss"},
		{Name: "c", URL: "https://c.example/rss"},
	}
	checker := stubChecker{"https://b.example/rss": errors.New("timeout")}

	res := CheckAll(context.Background(), checker, sources)
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(res.Errors))
	}
	if len(res.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(res.Reports))
	}
	if res.Reports[0].Title != "a" || res.Reports[1].Title != "c" {
		t.Errorf("reports out of order: %q, %q", res.Reports[0].Title, res.Reports[1].Title)
	}
}
