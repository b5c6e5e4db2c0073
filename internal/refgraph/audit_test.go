package refgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func findingsOfKind(findings []Finding, kind FindingKind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind() == kind {
			out = append(out, f)
		}
	}
	return out
}

func TestAuditDuplicateCompleteness(t *testing.T) {
	g := Build([]MemberRecord{
		rec(2, "0xAbC", ""),
		rec(3, "0xOther", "0xAbC"),
		rec(4, "0xabc", "0xOther"),
		rec(5, "0XABC", ""),
	}, BuildOptions{})
	findings := Audit(g, AuditOptions{})

	dups := findingsOfKind(findings, KindDuplicateIdentifier)
	if len(dups) != 1 {
		t.Fatalf("got %d duplicate findings, want 1", len(dups))
	}
	want := DuplicateIdentifier{Identifier: "0xAbC", Occurrences: []Provenance{2, 4, 5}}
	if diff := cmp.Diff(want, dups[0]); diff != "" {
		t.Errorf("duplicate finding mismatch (-want +got):\n%s", diff)
	}
}

func TestAuditDanglingReferrer(t *testing.T) {
	g := Build([]MemberRecord{
		rec(2, "0xRoot", ""),
		rec(3, "0xA", "0xRoot"),
		rec(4, "0xB", "0xMissing"),
	}, BuildOptions{})
	findings := Audit(g, AuditOptions{})

	dangling := findingsOfKind(findings, KindDanglingReferrer)
	if len(dangling) != 1 {
		t.Fatalf("got %d dangling findings, want 1", len(dangling))
	}
	want := DanglingReferrer{MemberIdentifier: "0xB", ReferrerIdentifier: "0xMissing", Provenance: 4}
	if diff := cmp.Diff(want, dangling[0]); diff != "" {
		t.Errorf("dangling finding mismatch (-want +got):\n%s", diff)
	}
}

func TestAuditSelfRootExemption(t *testing.T) {
	// 0xTop names itself as referrer: valid root under the self-root
	// convention, a defect otherwise.
	records := []MemberRecord{
		rec(2, "0xTop", "0xTOP"),
		rec(3, "0xA", "0xTop"),
	}

	g := Build(records, BuildOptions{})
	findings := Audit(g, AuditOptions{SelfIsRoot: true})
	if n := len(findings); n != 0 {
		t.Fatalf("self-root audit found %d findings, want 0: %v", n, findings)
	}

	findings = Audit(g, AuditOptions{SelfIsRoot: false})
	cycles := findingsOfKind(findings, KindCyclicChain)
	if len(cycles) != 1 {
		t.Fatalf("got %d cycle findings, want 1 (self-loop)", len(cycles))
	}
	cc := cycles[0].(CyclicChain)
	if len(cc.CycleMembers) != 1 || cc.CycleMembers[0] != "0xTop" {
		t.Errorf("self-loop members = %v, want [0xTop]", cc.CycleMembers)
	}
}

func TestAuditCycleDetectionAndDedup(t *testing.T) {
	// A -> B -> C -> A, plus a tail T hanging off the loop. One finding,
	// whatever the record order.
	orders := [][]MemberRecord{
		{rec(2, "A", "C"), rec(3, "B", "A"), rec(4, "C", "B"), rec(5, "T", "A")},
		{rec(2, "T", "A"), rec(3, "C", "B"), rec(4, "B", "A"), rec(5, "A", "C")},
		{rec(2, "B", "A"), rec(3, "T", "A"), rec(4, "A", "C"), rec(5, "C", "B")},
	}
	for i, records := range orders {
		g := Build(records, BuildOptions{})
		cycles := findingsOfKind(Audit(g, AuditOptions{}), KindCyclicChain)
		if len(cycles) != 1 {
			t.Fatalf("order %d: got %d cycle findings, want 1", i, len(cycles))
		}
		cc := cycles[0].(CyclicChain)
		got := map[string]bool{}
		for _, m := range cc.CycleMembers {
			got[m] = true
		}
		if len(got) != 3 || !got["A"] || !got["B"] || !got["C"] {
			t.Errorf("order %d: cycle members = %v, want {A B C}", i, cc.CycleMembers)
		}
	}
}

func TestAuditScenario(t *testing.T) {
	// A <- B <- C <- D, E -> Z with Z unknown.
	g := Build([]MemberRecord{
		rec(2, "A", ""),
		rec(3, "B", "A"),
		rec(4, "C", "B"),
		rec(5, "D", "C"),
		rec(6, "E", "Z"),
	}, BuildOptions{})
	findings := Audit(g, AuditOptions{})

	if n := len(findingsOfKind(findings, KindDuplicateIdentifier)); n != 0 {
		t.Errorf("got %d duplicate findings, want 0", n)
	}
	if n := len(findingsOfKind(findings, KindCyclicChain)); n != 0 {
		t.Errorf("got %d cycle findings, want 0", n)
	}
	dangling := findingsOfKind(findings, KindDanglingReferrer)
	if len(dangling) != 1 {
		t.Fatalf("got %d dangling findings, want 1", len(dangling))
	}
	df := dangling[0].(DanglingReferrer)
	if df.MemberIdentifier != "E" || df.ReferrerIdentifier != "Z" {
		t.Errorf("dangling = %+v, want E -> Z", df)
	}
}

func TestAuditIdempotent(t *testing.T) {
	records := []MemberRecord{
		rec(2, "A", "C"),
		rec(3, "B", "A"),
		rec(4, "C", "B"),
		rec(5, "C", "Missing"),
		rec(6, "D", "Nowhere"),
	}
	g := Build(records, BuildOptions{})
	first := Audit(g, AuditOptions{})
	second := Audit(g, AuditOptions{})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("audit is not idempotent (-first +second):\n%s", diff)
	}
}
