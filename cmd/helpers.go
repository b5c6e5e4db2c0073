package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/refgraph-cli/internal/config"
	"github.com/KaramelBytes/refgraph-cli/internal/ingest"
	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
)

// effectiveConfig returns the loaded config, or built-in defaults when no
// config could be loaded.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{SelfIsRoot: true, DuplicatePolicy: "first"}
}

// csvOptions merges per-command CSV flags with config values; flags win.
func csvOptions(delimiter, idCol, refCol string, referrerOptional bool) (ingest.Options, error) {
	c := effectiveConfig()
	if delimiter == "" {
		delimiter = c.Delimiter
	}
	if idCol == "" {
		idCol = c.IDColumn
	}
	if refCol == "" {
		refCol = c.ReferrerColumn
	}
	opt := ingest.Options{
		IDColumn:         idCol,
		ReferrerColumn:   refCol,
		ReferrerOptional: referrerOptional,
	}
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'tab')", delimiter)
	}
	return opt, nil
}

// duplicatePolicy maps the flag/config spelling to the builder policy.
func duplicatePolicy(s string) (refgraph.DuplicatePolicy, error) {
	if s == "" {
		s = effectiveConfig().DuplicatePolicy
	}
	switch s {
	case "", "first":
		return refgraph.FirstSeenWins, nil
	case "last":
		return refgraph.LastSeenWins, nil
	default:
		return refgraph.FirstSeenWins, fmt.Errorf("unsupported --duplicate-policy: %s (use first|last)", s)
	}
}
