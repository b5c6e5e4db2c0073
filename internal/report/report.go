package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
	"github.com/google/uuid"
)

const rule = "================================================================================"

// Summary is a render-ready view of one audit run.
type Summary struct {
	RunID             string
	Source            string
	Records           int
	UniqueIdentifiers int
	Duplicates        []refgraph.DuplicateIdentifier
	Dangling          []refgraph.DanglingReferrer
	Cycles            []refgraph.CyclicChain
}

// NewSummary splits findings by kind and stamps the run with a fresh ID.
func NewSummary(source string, g *refgraph.Graph, findings []refgraph.Finding) *Summary {
	s := &Summary{
		RunID:             uuid.NewString(),
		Source:            source,
		Records:           len(g.Records()),
		UniqueIdentifiers: g.Len(),
	}
	for _, f := range findings {
		switch f := f.(type) {
		case refgraph.DuplicateIdentifier:
			s.Duplicates = append(s.Duplicates, f)
		case refgraph.DanglingReferrer:
			s.Dangling = append(s.Dangling, f)
		case refgraph.CyclicChain:
			s.Cycles = append(s.Cycles, f)
		}
	}
	return s
}

// Issues returns the total finding count.
func (s *Summary) Issues() int {
	return len(s.Duplicates) + len(s.Dangling) + len(s.Cycles)
}

// Render formats the audit as a sectioned console report.
func (s *Summary) Render() string {
	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "REFERRAL GRAPH AUDIT (run %s)\n", s.RunID)
	fmt.Fprintf(&b, "Source: %s\n", s.Source)
	fmt.Fprintln(&b, rule)

	fmt.Fprintln(&b, "\nDUPLICATE IDENTIFIERS")
	if len(s.Duplicates) == 0 {
		fmt.Fprintln(&b, "  [OK] No duplicate identifiers found")
	} else {
		fmt.Fprintf(&b, "  [ERROR] Found %d duplicate identifier(s):\n", len(s.Duplicates))
		for _, d := range s.Duplicates {
			fmt.Fprintf(&b, "    %s: appears %d times at rows %s\n",
				d.Identifier, len(d.Occurrences), joinRows(d.Occurrences))
		}
	}

	fmt.Fprintln(&b, "\nDANGLING REFERRERS")
	if len(s.Dangling) == 0 {
		fmt.Fprintln(&b, "  [OK] All referrers are known identifiers")
	} else {
		fmt.Fprintf(&b, "  [ERROR] Found %d member(s) with missing sponsors:\n", len(s.Dangling))
		for _, d := range s.Dangling {
			fmt.Fprintf(&b, "    Row %d: %s -> %s (NOT FOUND)\n",
				d.Provenance, d.MemberIdentifier, d.ReferrerIdentifier)
		}
	}

	fmt.Fprintln(&b, "\nCYCLIC CHAINS")
	if len(s.Cycles) == 0 {
		fmt.Fprintln(&b, "  [OK] No referral cycles found")
	} else {
		fmt.Fprintf(&b, "  [ERROR] Found %d cycle(s):\n", len(s.Cycles))
		for _, c := range s.Cycles {
			fmt.Fprintf(&b, "    %s -> %s\n",
				strings.Join(c.CycleMembers, " -> "), c.StartIdentifier)
		}
	}

	fmt.Fprintln(&b, "\nSUMMARY")
	fmt.Fprintf(&b, "  Total rows (excluding header): %d\n", s.Records)
	fmt.Fprintf(&b, "  Unique identifiers: %d\n", s.UniqueIdentifiers)
	fmt.Fprintf(&b, "  Duplicates: %d  Dangling: %d  Cycles: %d\n",
		len(s.Duplicates), len(s.Dangling), len(s.Cycles))
	fmt.Fprintln(&b, rule)
	return b.String()
}

func joinRows(provs []refgraph.Provenance) string {
	parts := make([]string, len(provs))
	for i, p := range provs {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}
