package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterPlain(t *testing.T) {
	var out, errw bytes.Buffer
	p := NewPrinterWithWriters(&out, &errw, false)

	p.Success("resolved %d groups", 2)
	p.Info("fetching")
	p.Warning("stale %s", "tags")
	p.Error("resolve failed")

	if !strings.Contains(out.String(), "[OK] resolved 2 groups") {
		t.Errorf("missing success line: %q", out.String())
	}
	if !strings.Contains(out.String(), "fetching") {
		t.Errorf("missing info line: %q", out.String())
	}
	if !strings.Contains(errw.String(), "[WARN] stale tags") {
		t.Errorf("missing warning on stderr: %q", errw.String())
	}
	if !strings.Contains(errw.String(), "[ERROR] resolve failed") {
		t.Errorf("missing error on stderr: %q", errw.String())
	}
}

func TestHeader(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinterWithWriters(&out, &out, false)
	p.Header("Duplicates")
	if !strings.Contains(out.String(), "Duplicates\n----------") {
		t.Errorf("unexpected header: %q", out.String())
	}
}

func TestRiskBadgePlain(t *testing.T) {
	p := NewPrinterWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, false)
	if got := p.RiskBadge("high"); got != "[high]" {
		t.Errorf("RiskBadge = %q, want [high]", got)
	}
}

func TestResolveColorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if ResolveColors() {
		t.Error("NO_COLOR set should disable colors")
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, []string{"Group", "Risk"})
	tbl.AddRow("g1", "high")
	tbl.AddRow("g2", "low")
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
	if err := tbl.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"g1", "g2", "high", "low"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q: %q", want, got)
		}
	}
}
