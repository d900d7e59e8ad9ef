package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chipgen/internal/metadata"
	"chipgen/internal/pipeline"
	"chipgen/internal/testsupport"
)

func TestGenerateWithPositionalInput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"generate", env.input}, env.configPath)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Alpha")
	requireContains(t, out, "2 of series total 2")

	for _, name := range []string{"f1.json", "f2.json"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputRoot, "Alpha", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	records := testsupport.ReadCSV(t, filepath.Join(env.baseDir, "nfts.output.csv"))
	if got := records[0][len(records[0])-1]; got != "Sha256 hash" {
		t.Fatalf("last header = %q", got)
	}
}

func TestRootCommandRunsGenerate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--input", env.input}, env.configPath)
	if err != nil {
		t.Fatalf("root generate: %v", err)
	}
	requireContains(t, out, "Manifest")
}

func TestGeneratePromptsForInput(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, nil, env.configPath, strings.NewReader(env.input+"\n"))
	if err != nil {
		t.Fatalf("prompted generate: %v", err)
	}
	requireContains(t, out, inputPromptMessage)
	requireContains(t, out, "Alpha")
}

func TestGeneratePromptEmptyInput(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLIWithInput(t, []string{"generate"}, env.configPath, strings.NewReader("\n"))
	if !errors.Is(err, errNoInput) {
		t.Fatalf("expected errNoInput, got %v", err)
	}
}

func TestGenerateOutputRootOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	root := filepath.Join(env.baseDir, "elsewhere")

	if _, _, err := runCLI(t, []string{"generate", "-o", root, env.input}, env.configPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Alpha", "f1.json")); err != nil {
		t.Fatalf("expected output under override root: %v", err)
	}
}

func TestGenerateUndefinedTeamHint(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteCSV(t, env.baseDir, "orphan.csv", testsupport.Header, [][]string{
		{"A", "d", "1", "u1", "F", "", "", "f1"},
	})

	_, _, err := runCLI(t, []string{"generate", input}, env.configPath)
	if !errors.Is(err, pipeline.ErrUndefinedTeam) {
		t.Fatalf("expected ErrUndefinedTeam, got %v", err)
	}
	requireContains(t, err.Error(), "hint:")
}

func TestGenerateMissingColumnHint(t *testing.T) {
	env := setupCLITestEnv(t)
	header := []string{"Name", "Description", "Series Number", "UUID", "attributes", "TEAM NAMES", "Filename"}
	input := testsupport.WriteCSV(t, env.baseDir, "short.csv", header, [][]string{
		{"A", "d", "1", "u1", "", "Alpha", "f1"},
	})

	_, _, err := runCLI(t, []string{"generate", input}, env.configPath)
	if !errors.Is(err, metadata.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	requireContains(t, err.Error(), "Gender")
}

func TestGeneratePreflightFailsForMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	stale := filepath.Join(env.cfg.Paths.OutputRoot, "keep.txt")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, []string{"generate", filepath.Join(env.baseDir, "missing.csv")}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, stderr, "Input CSV")
	if _, err := os.Stat(stale); err != nil {
		t.Fatalf("output root must be untouched when preflight fails: %v", err)
	}
}

func TestVerifyAfterGenerate(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"generate", env.input}, env.configPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	manifestPath := filepath.Join(env.baseDir, "nfts.output.csv")

	out, _, err := runCLI(t, []string{"verify", manifestPath}, env.configPath)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	requireContains(t, out, "2 ok, 0 mismatch, 0 missing")

	target := filepath.Join(env.cfg.Paths.OutputRoot, "Alpha", "f2.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	out, _, err = runCLI(t, []string{"verify", manifestPath}, env.configPath)
	if err == nil {
		t.Fatal("expected verify failure after tampering")
	}
	requireContains(t, out, string(pipeline.VerifyMismatch))
	requireContains(t, out, "1 ok, 1 mismatch, 0 missing")
}

func TestHistoryListsLedgerRuns(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLedger())

	if _, _, err := runCLI(t, []string{"generate", env.input}, env.configPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "succeeded")
	requireContains(t, out, env.input)
}

func TestHistoryWithoutLedger(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No ledger")
	requireContains(t, out, "enabled = true")
}

func TestNoLedgerFlagSkipsRecording(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithLedger())

	if _, _, err := runCLI(t, []string{"generate", "--no-ledger", env.input}, env.configPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(env.cfg.Paths.LedgerPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no ledger database, stat err = %v", err)
	}
}

func TestGenerateRejectsDangerousOutputRootFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(home, "keep.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, root := range []string{"~", home, "/"} {
		_, _, err := runCLI(t, []string{"generate", "-o", root, env.input}, env.configPath)
		if err == nil || !strings.Contains(err.Error(), "output_root") {
			t.Fatalf("-o %s: expected output root validation error, got %v", root, err)
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("home contents must survive: %v", err)
	}
}

func TestGenerateRejectsOutputRootContainingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	inputDir := filepath.Join(env.baseDir, "incoming")
	input := testsupport.WriteCSV(t, inputDir, "nfts.csv", testsupport.Header, testsupport.TwoRowCSV)

	_, _, err := runCLI(t, []string{"generate", "-o", inputDir, input}, env.configPath)
	if !errors.Is(err, pipeline.ErrUnsafeOutputRoot) {
		t.Fatalf("expected ErrUnsafeOutputRoot, got %v", err)
	}
	requireContains(t, err.Error(), "hint:")
	if _, err := os.Stat(input); err != nil {
		t.Fatalf("input must survive: %v", err)
	}
}

func TestGenerateRejectsInputNamedLikeManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteCSV(t, env.baseDir, "nfts.output.csv", testsupport.Header, testsupport.TwoRowCSV)

	_, _, err := runCLI(t, []string{"generate", input}, env.configPath)
	if !errors.Is(err, pipeline.ErrManifestIsInput) {
		t.Fatalf("expected ErrManifestIsInput, got %v", err)
	}
}
