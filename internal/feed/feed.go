// Package feed checks RSS/Atom sources before they are registered in the CMS
// and reports what a source currently publishes.
package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	latestItems    = 5
	excerptLength  = 200
	checkUserAgent = "newsdesk-source-check/1.0"
)

// Item is one recent entry of a checked source.
type Item struct {
	ID        string
	Title     string
	Link      string
	Excerpt   string
	Published time.Time
}

// Report is the outcome of checking one source.
type Report struct {
	Source    domain.Source
	Title     string
	ItemCount int
	Newest    time.Time
	Latest    []Item
}

// Checker fetches and parses feeds.
type Checker interface {
	Check(ctx context.Context, source domain.Source) (Report, error)
}

type RSSChecker struct {
	parser *gofeed.Parser
	strict *bluemonday.Policy
}

func NewRSSChecker() *RSSChecker {
	p := gofeed.NewParser()
	p.UserAgent = checkUserAgent
	return &RSSChecker{parser: p, strict: bluemonday.StrictPolicy()}
}

func (c *RSSChecker) Check(ctx context.Context, source domain.Source) (Report, error) {
	feed, err := c.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return Report{}, fmt.Errorf("checking %s: %w", sourceLabel(source), err)
	}

	rep := Report{Source: source, Title: strings.TrimSpace(feed.Title), ItemCount: len(feed.Items)}
	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		var pub time.Time
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		}

		desc := it.Description
		if desc == "" {
			desc = it.Content
		}

		items = append(items, Item{
			ID:        articleID(it.Link),
			Title:     c.plain(it.Title),
			Link:      it.Link,
			Excerpt:   truncate(c.plain(desc), excerptLength),
			Published: pub,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Published.After(items[j].Published) })
	if len(items) > 0 {
		rep.Newest = items[0].Published
	}
	if len(items) > latestItems {
		items = items[:latestItems]
	}
	rep.Latest = items
	return rep, nil
}

// plain reduces feed HTML to a single line of text.
func (c *RSSChecker) plain(s string) string {
	s = html.UnescapeString(c.strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func sourceLabel(s domain.Source) string {
	if s.Name != "" {
		return s.Name
	}
	return s.URL
}

func articleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// CheckResult collects the reports of a CheckAll run. Reports keep the
// order of the input sources; failed sources are listed in Errors.
type CheckResult struct {
	Reports []Report
	Errors  []error
}

func CheckAll(ctx context.Context, checker Checker, sources []domain.Source) CheckResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports = make([]*Report, len(sources))
		result  CheckResult
	)

	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rep, err := checker.Check(ctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			reports[i] = &rep
		}()
	}

	wg.Wait()
	for _, r := range reports {
		if r != nil {
			result.Reports = append(result.Reports, *r)
		}
	}
	return result
}
