package refgraph

import "strings"

// DuplicatePolicy selects which record wins when several rows share a
// canonical identifier. The source exports are inconsistent about this, so
// the choice is explicit rather than an accident of insertion order.
type DuplicatePolicy int

const (
	// FirstSeenWins keeps the earliest row's mapping (the default: stable
	// under input order).
	FirstSeenWins DuplicatePolicy = iota
	// LastSeenWins lets later rows overwrite earlier ones.
	LastSeenWins
)

// BuildOptions configures Build.
type BuildOptions struct {
	DuplicatePolicy DuplicatePolicy
}

type node struct {
	identifier string // original casing per policy
	referrer   string // verbatim (trimmed), original casing
}

// Graph is the identifier→referrer mapping built from one snapshot of
// membership records. Keys are canonical (Normalize) forms; values keep the
// original casing. A Graph is read-only after Build and safe for concurrent
// Resolve calls.
type Graph struct {
	nodes      map[string]node
	duplicates map[string][]Provenance // canonical → every occurrence, k ≥ 2
	records    []MemberRecord          // cleaned, input order
}

// Build constructs a Graph from raw records. Rows with an absent identifier
// are skipped. Identifier and referrer values are trimmed; casing is kept.
// Rows colliding on a canonical identifier are fully enumerated in the
// duplicate set while exactly one mapping (per policy) stays authoritative.
func Build(records []MemberRecord, opts BuildOptions) *Graph {
	g := &Graph{
		nodes:      make(map[string]node, len(records)),
		duplicates: make(map[string][]Provenance),
		records:    make([]MemberRecord, 0, len(records)),
	}
	occurrences := make(map[string][]Provenance, len(records))
	for _, rec := range records {
		id := strings.TrimSpace(rec.Identifier)
		if id == "" {
			continue
		}
		ref := strings.TrimSpace(rec.Referrer)
		rec.Identifier = id
		rec.Referrer = ref
		g.records = append(g.records, rec)

		key := Normalize(id)
		occurrences[key] = append(occurrences[key], rec.Provenance)
		if _, exists := g.nodes[key]; !exists || opts.DuplicatePolicy == LastSeenWins {
			g.nodes[key] = node{identifier: id, referrer: ref}
		}
	}
	for key, provs := range occurrences {
		if len(provs) > 1 {
			g.duplicates[key] = provs
		}
	}
	return g
}

// Len returns the number of distinct canonical identifiers.
func (g *Graph) Len() int { return len(g.nodes) }

// Records returns the cleaned member records in input order. Callers must
// not mutate the returned slice.
func (g *Graph) Records() []MemberRecord { return g.records }

// Contains reports whether id (in any casing) is a known identifier.
func (g *Graph) Contains(id string) bool {
	_, ok := g.nodes[Normalize(id)]
	return ok
}

// Identifier returns the stored original-case form of id.
func (g *Graph) Identifier(id string) (string, bool) {
	n, ok := g.nodes[Normalize(id)]
	if !ok {
		return "", false
	}
	return n.identifier, true
}

// Referrer returns the referrer recorded for id, verbatim. The second result
// is false when id is not a known identifier.
func (g *Graph) Referrer(id string) (string, bool) {
	n, ok := g.nodes[Normalize(id)]
	if !ok {
		return "", false
	}
	return n.referrer, true
}
