package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
	"github.com/KaramelBytes/refgraph-cli/internal/report"
)

func auditFixture() (*refgraph.Graph, []refgraph.Finding) {
	g := refgraph.Build([]refgraph.MemberRecord{
		{Provenance: 2, Identifier: "0xAAA"},
		{Provenance: 3, Identifier: "0xaaa", Referrer: "0xAAA"},
		{Provenance: 4, Identifier: "0xBBB", Referrer: "0xMissing"},
		{Provenance: 5, Identifier: "0xCCC", Referrer: "0xmissing"},
	}, refgraph.BuildOptions{})
	return g, refgraph.Audit(g, refgraph.AuditOptions{})
}

func TestSummaryRender(t *testing.T) {
	g, findings := auditFixture()
	s := report.NewSummary("members.csv", g, findings)

	if s.RunID == "" {
		t.Error("summary should carry a run ID")
	}
	if s.Issues() != 3 {
		t.Errorf("Issues = %d, want 3", s.Issues())
	}

	out := s.Render()
	for _, want := range []string{
		"DUPLICATE IDENTIFIERS",
		"0xAAA: appears 2 times at rows 2, 3",
		"DANGLING REFERRERS",
		"Row 4: 0xBBB -> 0xMissing (NOT FOUND)",
		"CYCLIC CHAINS",
		"[OK] No referral cycles found",
		"Unique identifiers: 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q in:\n%s", want, out)
		}
	}
}

func TestMissingSponsorCounts(t *testing.T) {
	_, findings := auditFixture()
	var dangling []refgraph.DanglingReferrer
	for _, f := range findings {
		if d, ok := f.(refgraph.DanglingReferrer); ok {
			dangling = append(dangling, d)
		}
	}
	counts := report.MissingSponsorCounts(dangling)
	if len(counts) != 1 {
		t.Fatalf("got %d sponsors, want 1 (case-insensitive merge)", len(counts))
	}
	if counts[0].Count != 2 || counts[0].Sponsor != "0xMissing" {
		t.Errorf("counts[0] = %+v, want {0xMissing 2}", counts[0])
	}
}

func TestWriteResolvedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolved.csv")
	rows := []report.ResolvedRow{
		{No: 1, Identifier: "0xAAA", Resolved: "0xROOT"},
		{No: 2, Identifier: "0xBBB", Resolved: "0xAAA"},
	}
	if err := report.WriteResolvedCSV(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "No,Member_Wallet,Resolved_Referrer\n1,0xAAA,0xROOT\n2,0xBBB,0xAAA\n"
	if string(b) != want {
		t.Errorf("file = %q, want %q", b, want)
	}
}

func TestWriteDanglingCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing_sponsors.csv")
	dangling := []refgraph.DanglingReferrer{
		{MemberIdentifier: "0xBBB", ReferrerIdentifier: "0xMissing", Provenance: 4},
	}
	if err := report.WriteDanglingCSV(path, dangling); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "Row,Member_Wallet,Missing_Sponsor\n4,0xBBB,0xMissing\n"
	if string(b) != want {
		t.Errorf("file = %q, want %q", b, want)
	}
}
