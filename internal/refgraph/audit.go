package refgraph

import (
	"sort"
	"strings"
)

// AuditOptions configures Audit.
type AuditOptions struct {
	// SelfIsRoot exempts self-referential records from dangling-referrer
	// checks: one export convention marks the top of the tree by naming a
	// member as its own referrer.
	SelfIsRoot bool
}

// Audit classifies every structural defect in the graph: duplicate
// identifiers, dangling referrers, and referral cycles. Findings come out in
// a stable order derived from the input record sequence, never from map
// iteration order. Audit is a pure function of the graph; running it twice
// yields identical findings.
func Audit(g *Graph, opts AuditOptions) []Finding {
	var findings []Finding
	findings = append(findings, auditDuplicates(g)...)
	findings = append(findings, auditDangling(g, opts)...)
	findings = append(findings, auditCycles(g, opts)...)
	return findings
}

// auditDuplicates emits one finding per duplicated canonical identifier,
// listing every contributing row. The reported casing is the first seen.
func auditDuplicates(g *Graph) []Finding {
	var out []Finding
	emitted := make(map[string]bool)
	for _, rec := range g.records {
		key := Normalize(rec.Identifier)
		provs, dup := g.duplicates[key]
		if !dup || emitted[key] {
			continue
		}
		emitted[key] = true
		out = append(out, DuplicateIdentifier{
			Identifier:  rec.Identifier,
			Occurrences: provs,
		})
	}
	return out
}

func auditDangling(g *Graph, opts AuditOptions) []Finding {
	var out []Finding
	for _, rec := range g.records {
		if rec.Referrer == "" {
			continue
		}
		if g.Contains(rec.Referrer) {
			continue
		}
		if opts.SelfIsRoot && Normalize(rec.Referrer) == Normalize(rec.Identifier) {
			continue
		}
		out = append(out, DanglingReferrer{
			MemberIdentifier:   rec.Identifier,
			ReferrerIdentifier: rec.Referrer,
			Provenance:         rec.Provenance,
		})
	}
	return out
}

// auditCycles walks every chain once, in input-record order, and reports each
// distinct cycle exactly once. Nodes classified by an earlier walk are never
// re-walked; that memoization cannot hide a cycle because a cycle's members
// are only classified after the walk that first reaches them, and that walk
// detects the loop. Dedup is by the canonical set of cycle members, so the
// same loop entered from different tails is a single finding.
func auditCycles(g *Graph, opts AuditOptions) []Finding {
	var out []Finding
	classified := make(map[string]bool)
	reported := make(map[string]bool)
	for _, rec := range g.records {
		start := Normalize(rec.Identifier)
		if classified[start] {
			continue
		}
		pos := make(map[string]int)
		var path []string
		cur := start
		for {
			if classified[cur] {
				break
			}
			if p, seen := pos[cur]; seen {
				members := path[p:]
				sig := cycleSignature(members)
				if !reported[sig] {
					reported[sig] = true
					out = append(out, CyclicChain{
						StartIdentifier: g.displayName(members[0]),
						CycleMembers:    g.displayNames(members),
					})
				}
				break
			}
			pos[cur] = len(path)
			path = append(path, cur)

			ref := g.nodes[cur].referrer
			if ref == "" {
				break
			}
			refKey := Normalize(ref)
			if opts.SelfIsRoot && refKey == cur {
				break
			}
			if _, known := g.nodes[refKey]; !known {
				break
			}
			cur = refKey
		}
		for _, key := range path {
			classified[key] = true
		}
	}
	return out
}

func cycleSignature(members []string) string {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

func (g *Graph) displayName(key string) string {
	if n, ok := g.nodes[key]; ok {
		return n.identifier
	}
	return key
}

func (g *Graph) displayNames(keys []string) []string {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = g.displayName(key)
	}
	return names
}
