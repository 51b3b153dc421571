package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dleads/stakeados.app-sub003/internal/dedupe"
	"github.com/dleads/stakeados.app-sub003/internal/logging"
	"github.com/dleads/stakeados.app-sub003/internal/output"
)

type stubAPI struct {
	groups   []dedupe.Group
	resolved []string
}

func (s *stubAPI) ListDuplicates(context.Context, dedupe.Filter) ([]dedupe.Group, error) {
	return s.groups, nil
}

func (s *stubAPI) ResolveDuplicates(_ context.Context, req dedupe.ResolveRequest) error {
	s.resolved = append(s.resolved, req.GroupID)
	return nil
}

func TestRepeatedGroupIDsResolveOnce(t *testing.T) {
	api := &stubAPI{groups: []dedupe.Group{{
		ID:         "g1",
		Primary:    dedupe.ContentItem{ID: "a1"},
		Duplicates: []dedupe.DuplicateItem{{ContentItem: dedupe.ContentItem{ID: "a2"}}},
	}}}
	sel := dedupe.NewSelector(api, dedupe.DefaultFilter(), logging.Discard())
	if err := sel.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	selectGroups(sel, []string{"g1", "g1", "gone", "g1"})
	outcomes := sel.ResolveSelected(context.Background())

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %+v", outcomes)
	}
	if len(api.resolved) != 1 || api.resolved[0] != "g1" {
		t.Errorf("expected g1 resolved once, got %v", api.resolved)
	}

	var out, errw bytes.Buffer
	failed := reportOutcomes(output.NewPrinterWithWriters(&out, &errw, false), outcomes)
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if !strings.Contains(out.String(), "resolved g1") {
		t.Errorf("missing success line in %q", out.String())
	}
	if !strings.Contains(errw.String(), "[WARN] gone: not in the current duplicate list") {
		t.Errorf("missing unknown-group warning in %q", errw.String())
	}
}

func TestReportOutcomesCountsFailures(t *testing.T) {
	var out, errw bytes.Buffer
	failed := reportOutcomes(output.NewPrinterWithWriters(&out, &errw, false), []dedupe.Outcome{
		{GroupID: "g1"},
		{GroupID: "g2", Err: errors.New("503 detector busy")},
		{GroupID: "g3", Err: dedupe.ErrUnknownGroup},
	})
	if failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}
	if !strings.Contains(errw.String(), "[ERROR] g2: 503 detector busy") {
		t.Errorf("missing error line in %q", errw.String())
	}
}
