package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dleads/stakeados.app-sub003/internal/domain"
)

func testDB(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleCategories() []domain.RefItem {
	return []domain.RefItem{
		{ID: "c2", Name: "politics", Slug: "politics"},
		{ID: "c1", Name: "Markets", Slug: "markets"},
		{ID: "c3", Name: "Weather", Slug: "weather"},
	}
}

func TestReplaceAndGet(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	if err := db.ReplaceReference(domain.RefCategories, sampleCategories(), now); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.GetReference(domain.RefCategories)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	// Ordered by name, case-insensitive
	if got[0].ID != "c1" || got[1].ID != "c2" || got[2].ID != "c3" {
		t.Errorf("unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].Slug != "markets" {
		t.Errorf("expected slug markets, got %q", got[0].Slug)
	}
	if got[0].FetchedAt.IsZero() {
		t.Error("expected fetched_at to be set")
	}
}

func TestReplaceDropsMissingRows(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	if err := db.ReplaceReference(domain.RefCategories, sampleCategories(), now); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := db.ReplaceReference(domain.RefCategories, sampleCategories()[:1], now); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := db.GetReference(domain.RefCategories)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c2" {
		t.Errorf("expected only c2 after replace, got %+v", got)
	}
}

func TestKindsAreIsolated(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	if err := db.ReplaceReference(domain.RefCategories, sampleCategories(), now); err != nil {
		t.Fatalf("replace categories: %v", err)
	}
	if err := db.ReplaceReference(domain.RefTags, []domain.RefItem{{ID: "t1", Name: "breaking"}}, now); err != nil {
		t.Fatalf("replace tags: %v", err)
	}

	tags, err := db.GetReference(domain.RefTags)
	if err != nil {
		t.Fatalf("get tags: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("expected 1 tag, got %d", len(tags))
	}

	authors, err := db.GetReference(domain.RefAuthors)
	if err != nil {
		t.Fatalf("get authors: %v", err)
	}
	if len(authors) != 0 {
		t.Errorf("expected no authors, got %d", len(authors))
	}
}

func TestReplaceRejectsUnknownKind(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceReference(domain.RefKind("people"), nil, time.Now()); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestNeedsRefresh(t *testing.T) {
	db := testDB(t)

	// Never fetched
	if !db.NeedsRefresh(domain.RefAuthors, time.Hour) {
		t.Error("expected NeedsRefresh=true when never fetched")
	}
	if _, ok := db.LastFetched(domain.RefAuthors); ok {
		t.Error("expected no LastFetched before first replace")
	}

	if err := db.ReplaceReference(domain.RefAuthors, nil, time.Now()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	if db.NeedsRefresh(domain.RefAuthors, time.Hour) {
		t.Error("expected NeedsRefresh=false right after replace")
	}
	if !db.NeedsRefresh(domain.RefAuthors, 0) {
		t.Error("expected NeedsRefresh=true with zero ttl")
	}

	// Stale fetch
	if err := db.ReplaceReference(domain.RefTags, nil, time.Now().Add(-2*time.Hour)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !db.NeedsRefresh(domain.RefTags, time.Hour) {
		t.Error("expected NeedsRefresh=true for a 2h old fetch with 1h ttl")
	}
}

func TestPruneKind(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	if err := db.ReplaceReference(domain.RefCategories, sampleCategories(), now); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.ReplaceReference(domain.RefTags, []domain.RefItem{{ID: "t1", Name: "breaking"}}, now); err != nil {
		t.Fatalf("replace: %v", err)
	}

	deleted, err := db.Prune(domain.RefCategories)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 pruned, got %d", deleted)
	}
	if !db.NeedsRefresh(domain.RefCategories, time.Hour) {
		t.Error("expected pruned kind to need refresh")
	}
	if db.NeedsRefresh(domain.RefTags, time.Hour) {
		t.Error("expected tags to stay fresh")
	}
}

func TestPruneAll(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	if err := db.ReplaceReference(domain.RefCategories, sampleCategories(), now); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.ReplaceReference(domain.RefTags, []domain.RefItem{{ID: "t1", Name: "breaking"}}, now); err != nil {
		t.Fatalf("replace: %v", err)
	}

	deleted, err := db.Prune()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 4 {
		t.Errorf("expected 4 pruned, got %d", deleted)
	}

	deleted, err = db.Prune()
	if err != nil {
		t.Fatalf("second prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned on empty cache, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.ReplaceReference(domain.RefCategories, sampleCategories(), time.Now()); err != nil {
		t.Fatalf("replace: %v", err)
	}

	st, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Total() != 3 {
		t.Errorf("expected total 3, got %d", st.Total())
	}
	if len(st.Kinds) != len(domain.AllRefKinds()) {
		t.Fatalf("expected a row per kind, got %d", len(st.Kinds))
	}
	for _, ks := range st.Kinds {
		if ks.Kind == domain.RefCategories && ks.LastFetched.IsZero() {
			t.Error("expected categories last fetched time")
		}
		if ks.Kind == domain.RefAuthors && !ks.LastFetched.IsZero() {
			t.Error("expected no authors fetch time")
		}
	}
	if st.Size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestMissingMeta(t *testing.T) {
	db := testDB(t)
	if _, err := db.getMeta("missing"); err == nil {
		t.Error("expected error for missing key")
	}
}
