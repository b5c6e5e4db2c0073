package refgraph

import "strings"

// ResolveOptions configures Resolve and Chain.
type ResolveOptions struct {
	// MaxDepth bounds the number of climbs before forcing the fallback.
	// Zero means unbounded; the per-walk seen set already guarantees
	// termination on any finite graph.
	MaxDepth int
}

// Resolve walks start's referrer chain upward and returns the first ancestor
// for which isQualifying is true, in its original casing. The fallback is
// returned when the chain ends (no referrer), breaks (unknown referrer),
// reaches the fallback itself, revisits a member, or exceeds MaxDepth.
// Resolve never errors and never returns an empty identifier.
//
// The graph is not mutated; concurrent Resolve calls over one built Graph
// are safe.
func Resolve(g *Graph, start string, isQualifying func(string) bool, fallback string, opts ResolveOptions) string {
	fallbackKey := Normalize(fallback)
	seen := make(map[string]struct{})
	cur, _ := g.Referrer(start)
	for depth := 0; ; depth++ {
		if Absent(cur) {
			return fallback
		}
		key := Normalize(cur)
		if key == fallbackKey {
			return fallback
		}
		if _, ok := seen[key]; ok {
			return fallback
		}
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return fallback
		}
		seen[key] = struct{}{}

		name := strings.TrimSpace(cur)
		if stored, ok := g.Identifier(key); ok {
			name = stored
		}
		if isQualifying(name) {
			return name
		}
		next, known := g.Referrer(key)
		if !known {
			return fallback
		}
		cur = next
	}
}

// ChainEnd says why a chain walk stopped.
type ChainEnd string

const (
	ChainEndRoot     ChainEnd = "root"
	ChainEndNoRef    ChainEnd = "no_referrer"
	ChainEndUnknown  ChainEnd = "unknown_referrer"
	ChainEndSelfRoot ChainEnd = "self_root"
	ChainEndCycle    ChainEnd = "cycle"
	ChainEndDepth    ChainEnd = "max_depth"
)

// Chain returns the ancestors visited climbing from start (excluding start
// itself, original casing) together with the reason the climb stopped. It is
// the traced twin of Resolve, used for diagnostics.
func Chain(g *Graph, start, fallback string, opts ResolveOptions) ([]string, ChainEnd) {
	fallbackKey := Normalize(fallback)
	seen := make(map[string]struct{})
	var visited []string
	cur, _ := g.Referrer(start)
	for depth := 0; ; depth++ {
		if Absent(cur) {
			return visited, ChainEndNoRef
		}
		key := Normalize(cur)
		if fallbackKey != "" && key == fallbackKey {
			return visited, ChainEndRoot
		}
		if _, ok := seen[key]; ok {
			return visited, ChainEndCycle
		}
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return visited, ChainEndDepth
		}
		seen[key] = struct{}{}

		next, known := g.Referrer(key)
		if !known {
			visited = append(visited, strings.TrimSpace(cur))
			return visited, ChainEndUnknown
		}
		visited = append(visited, g.displayName(key))
		if Normalize(next) == key {
			return visited, ChainEndSelfRoot
		}
		cur = next
	}
}
