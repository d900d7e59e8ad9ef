package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chipgen/internal/config"
	"chipgen/internal/ledger"
	"chipgen/internal/manifest"
	"chipgen/internal/metadata"
	"chipgen/internal/pipeline"
	"chipgen/internal/preflight"
)

type generateFlags struct {
	input      string
	outputRoot string
	noLedger   bool
}

func (f *generateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input CSV path (prompted when omitted)")
	cmd.Flags().StringVarP(&f.outputRoot, "output-root", "o", "", "Override paths.output_root")
	cmd.Flags().BoolVar(&f.noLedger, "no-ledger", false, "Skip recording this run in the ledger")
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate [csv]",
		Short: "Write one metadata file per CSV row and a manifest with their SHA-256 digests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, flags, args)
		},
	}
	flags.bind(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, flags generateFlags, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	input, err := resolveInput(cmd, flags, args)
	if err != nil {
		return err
	}

	outputRoot := cfg.Paths.OutputRoot
	if strings.TrimSpace(flags.outputRoot) != "" {
		if outputRoot, err = config.ExpandPath(strings.TrimSpace(flags.outputRoot)); err != nil {
			return fmt.Errorf("resolve output root: %w", err)
		}
	}

	runCfg := *cfg
	runCfg.Paths.OutputRoot = outputRoot
	useLedger := cfg.Ledger.Enabled && !flags.noLedger
	runCfg.Ledger.Enabled = useLedger
	if err := runCfg.Validate(); err != nil {
		return err
	}

	colorize := shouldColorize(cmd.ErrOrStderr())
	results := preflight.RunAll(&runCfg, input)
	if err := preflight.Err(results); err != nil {
		writeLines(cmd.ErrOrStderr(), preflightLines(results, colorize))
		return err
	}

	opts := pipeline.Options{
		Input:          input,
		OutputRoot:     outputRoot,
		ManifestSuffix: cfg.Manifest.OutputSuffix,
		HashColumn:     cfg.Manifest.HashColumn,
		Collection:     collectionFromConfig(cfg),
		JSONIndent:     cfg.Manifest.JSONIndent,
		JSONStyle:      metadata.Style(cfg.Manifest.JSONStyle),
		Logger:         logger,
	}

	if useLedger {
		store, err := ledger.Open(cmd.Context(), cfg.Paths.LedgerPath)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer store.Close()
		opts.Recorder = store
	}

	summary, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		return withHint(err, outputRoot)
	}

	printSummary(cmd, summary)
	return nil
}

func resolveInput(cmd *cobra.Command, flags generateFlags, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		if flags.input != "" && flags.input != args[0] {
			return "", fmt.Errorf("input given twice: %q and --input %q", args[0], flags.input)
		}
		return args[0], nil
	}
	if strings.TrimSpace(flags.input) != "" {
		return flags.input, nil
	}
	return promptInputPath(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func collectionFromConfig(cfg *config.Config) metadata.Collection {
	return metadata.Collection{
		Format:           cfg.Collection.Format,
		Name:             cfg.Collection.Name,
		Description:      cfg.Collection.Description,
		SensitiveContent: cfg.Collection.SensitiveContent,
	}
}

func printSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	writeLines(out, renderSectionHeader("Generate", colorize))
	rows := make([][]string, 0, len(summary.Teams))
	for _, team := range summary.Teams {
		rows = append(rows, []string{team.Name, relativeTo(summary.OutputRoot, team.Dir), strconv.Itoa(team.Files)})
	}
	fmt.Fprintln(out, renderTable([]tableColumn{leftColumn("Team"), leftColumn("Directory"), rightColumn("Files")}, rows))

	fmt.Fprintln(out, renderStatusLine("Files", statusOK, fmt.Sprintf("%d of series total %d", summary.Rows, summary.Total), colorize))
	fmt.Fprintln(out, renderStatusLine("Manifest", statusOK, summary.Manifest, colorize))
	fmt.Fprintln(out, renderStatusLine("Output root", statusInfo, summary.OutputRoot, colorize))
	if summary.Dropped > 0 {
		fmt.Fprintln(out, renderStatusLine("Attributes", statusWarn, fmt.Sprintf("%d segment(s) without ':' skipped", summary.Dropped), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Run", statusInfo, summary.RunID, colorize))
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// withHint appends a remediation hint for errors users can fix in their CSV
// or environment. The returned error still matches the original with errors.Is.
func withHint(err error, outputRoot string) error {
	var hint string
	switch {
	case errors.Is(err, metadata.ErrMissingField):
		hint = "the CSV header must contain: " + strings.Join(manifest.RequiredColumns, ", ")
	case errors.Is(err, pipeline.ErrUndefinedTeam):
		hint = "the first data row must name a team in the TEAM NAMES column"
	case errors.Is(err, manifest.ErrInvalidTotal):
		hint = "the Series Number of the last row must be an integer"
	case errors.Is(err, pipeline.ErrOutputLocked):
		hint = fmt.Sprintf("another chipgen run is writing to %s", outputRoot)
	case errors.Is(err, pipeline.ErrUnsafeOutputRoot):
		hint = "choose an output root that holds only generated files; it is deleted on every run"
	case errors.Is(err, pipeline.ErrManifestIsInput):
		hint = "rename the input so its manifest name differs, or set [manifest] output_suffix"
	case errors.Is(err, pipeline.ErrUnsafeName):
		hint = "team names and filenames must not contain path separators"
	default:
		return err
	}
	return fmt.Errorf("%w\nhint: %s", err, hint)
}
