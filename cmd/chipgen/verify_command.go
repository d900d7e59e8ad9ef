package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chipgen/internal/config"
	"chipgen/internal/pipeline"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var outputRoot string
	var showAll bool

	cmd := &cobra.Command{
		Use:   "verify <manifest>",
		Short: "Re-hash the metadata files listed in a manifest and report differences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			root := cfg.Paths.OutputRoot
			if strings.TrimSpace(outputRoot) != "" {
				if root, err = config.ExpandPath(strings.TrimSpace(outputRoot)); err != nil {
					return fmt.Errorf("resolve output root: %w", err)
				}
			}

			report, err := pipeline.Verify(cmd.Context(), pipeline.VerifyOptions{
				Manifest:   args[0],
				OutputRoot: root,
				HashColumn: cfg.Manifest.HashColumn,
				Logger:     logger,
			})
			if err != nil {
				return withHint(err, root)
			}

			printVerifyReport(cmd, report, root, showAll)
			if !report.Passed() {
				return fmt.Errorf("verify failed: %d mismatched, %d missing", report.Mismatched, report.Missing)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputRoot, "output-root", "o", "", "Override paths.output_root")
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "List matching files as well as failures")
	return cmd
}

func printVerifyReport(cmd *cobra.Command, report *pipeline.VerifyReport, root string, showAll bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	writeLines(out, renderSectionHeader("Verify", colorize))
	var rows [][]string
	for _, r := range report.Results {
		if r.Status == pipeline.VerifyOK && !showAll {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(r.Row), r.Team, relativeTo(root, r.Path), string(r.Status)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable([]tableColumn{rightColumn("Row"), leftColumn("Team"), leftColumn("File"), leftColumn("Status")}, rows))
	}

	kind := statusOK
	if !report.Passed() {
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Files", kind,
		fmt.Sprintf("%d ok, %d mismatch, %d missing", report.OK, report.Mismatched, report.Missing), colorize))
}
