package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"chipgen/internal/config"
)

// ErrFailed reports that at least one preflight check did not pass.
var ErrFailed = errors.New("preflight checks failed")

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks for a generate run over input.
// The ledger location is only checked when the ledger is enabled.
func RunAll(cfg *config.Config, input string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckInputFile("Input CSV", input),
		// The manifest is written next to the input.
		CheckDirectoryAccess("Manifest directory", filepath.Dir(input)),
		CheckCreatable("Output root", cfg.Paths.OutputRoot),
	}
	if cfg.Ledger.Enabled {
		results = append(results, CheckCreatable("Ledger directory", filepath.Dir(cfg.Paths.LedgerPath)))
	}
	return results
}

// Err folds failed results into a single error wrapping ErrFailed, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFailed, strings.Join(failed, "; "))
}
