package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/refgraph-cli/internal/ingest"
	"github.com/KaramelBytes/refgraph-cli/internal/refgraph"
	"github.com/KaramelBytes/refgraph-cli/internal/report"
	"github.com/KaramelBytes/refgraph-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	audSelfRoot    bool
	audDupPolicy   string
	audDelimiter   string
	audIDCol       string
	audRefCol      string
	audOutputPath  string
	audDanglingCSV string
	audSponsorsCSV string
	audStrict      bool
)

var auditCmd = &cobra.Command{
	Use:   "audit <members.csv>",
	Short: "Check a membership CSV for duplicates, missing sponsors, and cycles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := csvOptions(audDelimiter, audIDCol, audRefCol, false)
		if err != nil {
			return err
		}
		records, err := ingest.ReadMembers(path, opt)
		if err != nil {
			return err
		}
		logger.Debug("members loaded", zap.String("file", path), zap.Int("rows", len(records)))

		policy, err := duplicatePolicy(audDupPolicy)
		if err != nil {
			return err
		}
		g := refgraph.Build(records, refgraph.BuildOptions{DuplicatePolicy: policy})

		selfRoot := audSelfRoot
		if !cmd.Flags().Changed("self-root") {
			selfRoot = effectiveConfig().SelfIsRoot
		}
		findings := refgraph.Audit(g, refgraph.AuditOptions{SelfIsRoot: selfRoot})
		logger.Debug("audit complete",
			zap.Int("identifiers", g.Len()),
			zap.Int("findings", len(findings)))

		sum := report.NewSummary(filepath.Base(path), g, findings)
		if audOutputPath != "" {
			if err := utils.SafeWriteFile(audOutputPath, []byte(sum.Render())); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Printf("✓ Wrote audit report to %s\n", audOutputPath)
		} else {
			fmt.Print(sum.Render())
		}

		if audDanglingCSV != "" {
			if err := report.WriteDanglingCSV(audDanglingCSV, sum.Dangling); err != nil {
				return err
			}
			fmt.Printf("✓ Exported %d missing sponsor row(s) to %s\n", len(sum.Dangling), audDanglingCSV)
		}
		if audSponsorsCSV != "" {
			counts := report.MissingSponsorCounts(sum.Dangling)
			if err := report.WriteSponsorCountsCSV(audSponsorsCSV, counts); err != nil {
				return err
			}
			fmt.Printf("✓ Exported %d unique missing sponsor(s) to %s\n", len(counts), audSponsorsCSV)
		}

		strict := audStrict
		if !cmd.Flags().Changed("strict") {
			strict = effectiveConfig().Strict
		}
		if strict && sum.Issues() > 0 {
			return fmt.Errorf("audit found %d issue(s)", sum.Issues())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().BoolVar(&audSelfRoot, "self-root", true, "treat a self-referencing member as the tree root, not a defect")
	auditCmd.Flags().StringVar(&audDupPolicy, "duplicate-policy", "", "which duplicate row wins the mapping: 'first'|'last'")
	auditCmd.Flags().StringVar(&audDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	auditCmd.Flags().StringVar(&audIDCol, "id-column", "", "identifier column name (auto-detect if omitted)")
	auditCmd.Flags().StringVar(&audRefCol, "referrer-column", "", "referrer column name (auto-detect if omitted)")
	auditCmd.Flags().StringVarP(&audOutputPath, "output", "o", "", "optional path to write the audit report")
	auditCmd.Flags().StringVar(&audDanglingCSV, "findings-csv", "", "optional path to export missing sponsors as CSV")
	auditCmd.Flags().StringVar(&audSponsorsCSV, "sponsor-counts-csv", "", "optional path to export unique missing sponsors with counts")
	auditCmd.Flags().BoolVar(&audStrict, "strict", false, "exit non-zero when any finding exists (for CI)")
}
