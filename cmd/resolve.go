package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/refgraph-cli/internal/ingest"
	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
	"github.com/KaramelBytes/refgraph-cli/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resMembersPath string
	resCohortPath  string
	resRoot        string
	resMaxDepth    int
	resOutputPath  string
	resDupPolicy   string
	resDelimiter   string
	resIDCol       string
	resRefCol      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <input.csv>",
	Short: "Resolve each input member's nearest cohort ancestor in the referral chain",
	Long: `For every member in the input file, resolve climbs the referrer chain
recorded in the members file until it finds an ancestor belonging to the
cohort (by default, the input file's own identifier set), and writes the
results as a CSV. Broken chains, cycles, and chains that reach the root
resolve to the fallback root identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		root := resRoot
		if root == "" {
			root = effectiveConfig().FallbackRoot
		}
		if root == "" {
			return fmt.Errorf("a fallback root is required (--root or fallback_root in config)")
		}
		maxDepth := resMaxDepth
		if !cmd.Flags().Changed("max-depth") {
			maxDepth = effectiveConfig().MaxDepth
		}

		memberOpt, err := csvOptions(resDelimiter, resIDCol, resRefCol, false)
		if err != nil {
			return err
		}
		memberRecords, err := ingest.ReadMembers(resMembersPath, memberOpt)
		if err != nil {
			return fmt.Errorf("members file: %w", err)
		}
		policy, err := duplicatePolicy(resDupPolicy)
		if err != nil {
			return err
		}
		g := refgraph.Build(memberRecords, refgraph.BuildOptions{DuplicatePolicy: policy})
		logger.Debug("referral map built",
			zap.String("members", resMembersPath),
			zap.Int("identifiers", g.Len()))

		inputOpt := memberOpt
		inputOpt.ReferrerOptional = true
		inputRecords, err := ingest.ReadMembers(inputPath, inputOpt)
		if err != nil {
			return fmt.Errorf("input file: %w", err)
		}

		var cohort map[string]struct{}
		if resCohortPath != "" {
			cohort, err = ingest.ReadCohort(resCohortPath, inputOpt)
			if err != nil {
				return fmt.Errorf("cohort file: %w", err)
			}
		} else {
			cohort = make(map[string]struct{}, len(inputRecords))
			for _, rec := range inputRecords {
				if !refgraph.Absent(rec.Identifier) {
					cohort[refgraph.Normalize(rec.Identifier)] = struct{}{}
				}
			}
		}
		logger.Debug("cohort loaded", zap.Int("size", len(cohort)))

		inCohort := func(id string) bool {
			_, ok := cohort[refgraph.Normalize(id)]
			return ok
		}
		opts := refgraph.ResolveOptions{MaxDepth: maxDepth}
		rows := make([]report.ResolvedRow, 0, len(inputRecords))
		for _, rec := range inputRecords {
			if refgraph.Absent(rec.Identifier) {
				continue
			}
			rows = append(rows, report.ResolvedRow{
				No:         len(rows) + 1,
				Identifier: rec.Identifier,
				Resolved:   refgraph.Resolve(g, rec.Identifier, inCohort, root, opts),
			})
		}

		out := resOutputPath
		if out == "" {
			out = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".resolved.csv"
		}
		if err := report.WriteResolvedCSV(out, rows); err != nil {
			return err
		}
		fmt.Printf("✓ Resolved %d member(s), written to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVarP(&resMembersPath, "members", "m", "", "members CSV holding the identifier -> referrer mapping (required)")
	resolveCmd.Flags().StringVar(&resCohortPath, "cohort", "", "CSV of qualifying identifiers (defaults to the input file's own identifiers)")
	resolveCmd.Flags().StringVar(&resRoot, "root", "", "fallback root identifier (required unless set in config)")
	resolveCmd.Flags().IntVar(&resMaxDepth, "max-depth", 0, "maximum climbs per chain, 0 = unbounded")
	resolveCmd.Flags().StringVarP(&resOutputPath, "output", "o", "", "output CSV path (default: <input>.resolved.csv)")
	resolveCmd.Flags().StringVar(&resDupPolicy, "duplicate-policy", "", "which duplicate row wins the mapping: 'first'|'last'")
	resolveCmd.Flags().StringVar(&resDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	resolveCmd.Flags().StringVar(&resIDCol, "id-column", "", "identifier column name (auto-detect if omitted)")
	resolveCmd.Flags().StringVar(&resRefCol, "referrer-column", "", "referrer column name (auto-detect if omitted)")
	_ = resolveCmd.MarkFlagRequired("members")
}
