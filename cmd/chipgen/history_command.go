package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"chipgen/internal/ledger"
)

const runIDDisplayLen = 8

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List generate runs recorded in the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if _, err := os.Stat(cfg.Paths.LedgerPath); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(out, "No ledger at %s\n", cfg.Paths.LedgerPath)
				if !cfg.Ledger.Enabled {
					fmt.Fprintln(out, "Set [ledger] enabled = true to record generate runs.")
				}
				return nil
			}

			store, err := ledger.Open(cmd.Context(), cfg.Paths.LedgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			if runID != "" {
				return printRunArtifacts(cmd, store, runID)
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					run.Status,
					strconv.Itoa(run.Rows),
					run.Input,
					run.Error,
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				leftColumn("Run"), leftColumn("Started"), leftColumn("Status"),
				rightColumn("Rows"), leftColumn("Input"), leftColumn("Error"),
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the files written by this run id")
	return cmd
}

func printRunArtifacts(cmd *cobra.Command, store *ledger.Store, runID string) error {
	artifacts, err := store.Artifacts(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(artifacts) == 0 {
		fmt.Fprintf(out, "No files recorded for run %s\n", runID)
		return nil
	}
	rows := make([][]string, 0, len(artifacts))
	for _, a := range artifacts {
		rows = append(rows, []string{strconv.Itoa(a.Row), a.Team, a.Path, a.Digest})
	}
	fmt.Fprintln(out, renderTable([]tableColumn{rightColumn("Row"), leftColumn("Team"), leftColumn("File"), leftColumn("SHA-256")}, rows))
	return nil
}

func shortID(id string) string {
	if len(id) <= runIDDisplayLen {
		return id
	}
	return id[:runIDDisplayLen]
}
