package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/refgraph-cli/internal/ingest"
	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
	"github.com/spf13/cobra"
)

var (
	insDelimiter string
	insIDCol     string
	insRefCol    string
	insRoot      string
	insContext   int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <members.csv> <identifier|row>",
	Short: "Show one member's record, referrer status, and full referral chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, target := args[0], args[1]
		opt, err := csvOptions(insDelimiter, insIDCol, insRefCol, false)
		if err != nil {
			return err
		}
		records, err := ingest.ReadMembers(path, opt)
		if err != nil {
			return err
		}
		g := refgraph.Build(records, refgraph.BuildOptions{})
		clean := g.Records()

		idx := findRecord(clean, target)
		if idx < 0 {
			return fmt.Errorf("no member matching %q (by identifier or row number)", target)
		}
		rec := clean[idx]
		firstRow := firstOccurrence(clean)

		fmt.Printf("Member (row %d):\n", rec.Provenance)
		fmt.Printf("  Wallet:   %s\n", rec.Identifier)
		if rec.Referrer == "" {
			fmt.Printf("  Referrer: (none: root member)\n")
		} else {
			fmt.Printf("  Referrer: %s\n", rec.Referrer)
		}
		if rec.Extra != "" {
			fmt.Printf("  Extra:    %s\n", rec.Extra)
		}

		switch {
		case rec.Referrer == "":
		case refgraph.Normalize(rec.Referrer) == refgraph.Normalize(rec.Identifier):
			fmt.Println("  Status:   self-referential root marker")
		case g.Contains(rec.Referrer):
			name, _ := g.Identifier(rec.Referrer)
			fmt.Printf("  Status:   referrer found: %s (row %d)\n",
				name, firstRow[refgraph.Normalize(rec.Referrer)])
		default:
			fmt.Println("  Status:   [ERROR] referrer NOT FOUND in member list")
		}

		root := insRoot
		if root == "" {
			root = effectiveConfig().FallbackRoot
		}
		steps, end := refgraph.Chain(g, rec.Identifier, root, refgraph.ResolveOptions{})
		if len(steps) > 0 {
			fmt.Printf("\nChain: %s -> %s (stopped: %s)\n",
				rec.Identifier, strings.Join(steps, " -> "), end)
		} else {
			fmt.Printf("\nChain: %s (stopped: %s)\n", rec.Identifier, end)
		}

		if insContext > 0 {
			fmt.Println("\nNearby rows:")
			for i := max(0, idx-insContext); i < len(clean) && i <= idx+insContext; i++ {
				n := clean[i]
				status := "OK"
				if n.Referrer == "" {
					status = "ROOT"
				} else if !g.Contains(n.Referrer) &&
					refgraph.Normalize(n.Referrer) != refgraph.Normalize(n.Identifier) {
					status = "MISSING"
				}
				marker := " "
				if i == idx {
					marker = ">"
				}
				fmt.Printf("%s Row %d: %s -> %s [%s]\n",
					marker, n.Provenance, truncate(n.Identifier, 24), truncate(n.Referrer, 24), status)
			}
		}
		return nil
	},
}

// findRecord locates a member by row number or (canonical) identifier.
func findRecord(records []refgraph.MemberRecord, target string) int {
	if row, err := strconv.Atoi(target); err == nil {
		for i, rec := range records {
			if int(rec.Provenance) == row {
				return i
			}
		}
		return -1
	}
	key := refgraph.Normalize(target)
	for i, rec := range records {
		if refgraph.Normalize(rec.Identifier) == key {
			return i
		}
	}
	return -1
}

// firstOccurrence maps each canonical identifier to the row it first appears
// on, for cross-referencing referrers in output.
func firstOccurrence(records []refgraph.MemberRecord) map[string]refgraph.Provenance {
	rows := make(map[string]refgraph.Provenance, len(records))
	for _, rec := range records {
		key := refgraph.Normalize(rec.Identifier)
		if _, ok := rows[key]; !ok {
			rows[key] = rec.Provenance
		}
	}
	return rows
}

func truncate(s string, n int) string {
	if s == "" {
		return "N/A"
	}
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	inspectCmd.Flags().StringVar(&insIDCol, "id-column", "", "identifier column name (auto-detect if omitted)")
	inspectCmd.Flags().StringVar(&insRefCol, "referrer-column", "", "referrer column name (auto-detect if omitted)")
	inspectCmd.Flags().StringVar(&insRoot, "root", "", "fallback root identifier used to mark the chain end")
	inspectCmd.Flags().IntVar(&insContext, "context", 4, "number of neighbouring rows to show (0 disables)")
}
