package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
	"github.com/KaramelBytes/refgraph-cli/internal/utils"
)

// WriteDanglingCSV exports dangling-referrer findings, one row per affected
// member, in the layout downstream repair tooling expects.
func WriteDanglingCSV(path string, dangling []refgraph.DanglingReferrer) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Row", "Member_Wallet", "Missing_Sponsor"})
	for _, d := range dangling {
		_ = w.Write([]string{
			strconv.Itoa(int(d.Provenance)),
			d.MemberIdentifier,
			d.ReferrerIdentifier,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// SponsorCount is one missing sponsor and how many members reference it.
type SponsorCount struct {
	Sponsor string
	Count   int
}

// MissingSponsorCounts aggregates dangling findings per missing sponsor
// (canonical identity), most-referenced first, ties by name.
func MissingSponsorCounts(dangling []refgraph.DanglingReferrer) []SponsorCount {
	byKey := make(map[string]*SponsorCount)
	for _, d := range dangling {
		key := refgraph.Normalize(d.ReferrerIdentifier)
		if c, ok := byKey[key]; ok {
			c.Count++
			continue
		}
		byKey[key] = &SponsorCount{Sponsor: d.ReferrerIdentifier, Count: 1}
	}
	counts := make([]SponsorCount, 0, len(byKey))
	for _, c := range byKey {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Sponsor < counts[j].Sponsor
	})
	return counts
}

// WriteSponsorCountsCSV exports the unique missing sponsors with reference
// counts.
func WriteSponsorCountsCSV(path string, counts []SponsorCount) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Missing_Sponsor", "Count"})
	for _, c := range counts {
		_ = w.Write([]string{c.Sponsor, strconv.Itoa(c.Count)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// ResolvedRow pairs an input member with its resolved referral ancestor.
type ResolvedRow struct {
	No         int
	Identifier string
	Resolved   string
}

// WriteResolvedCSV exports chain-resolution results.
func WriteResolvedCSV(path string, rows []ResolvedRow) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"No", "Member_Wallet", "Resolved_Referrer"})
	for _, r := range rows {
		_ = w.Write([]string{strconv.Itoa(r.No), r.Identifier, r.Resolved})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
