package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"chipgen/internal/config"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "chipgen", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.OutputRoot != filepath.Join(wd, "NFTS") {
		t.Fatalf("unexpected output root: %q", cfg.Paths.OutputRoot)
	}
	if cfg.Paths.LedgerPath != filepath.Join(tempHome, ".local", "share", "chipgen", "ledger.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.Paths.LedgerPath)
	}
	if cfg.Collection.Format != "CHIP-0007" {
		t.Fatalf("unexpected format %q", cfg.Collection.Format)
	}
	if cfg.Collection.SensitiveContent {
		t.Fatal("expected sensitive_content false by default")
	}
	if cfg.Manifest.HashColumn != "Sha256 hash" {
		t.Fatalf("unexpected hash column %q", cfg.Manifest.HashColumn)
	}
	if cfg.Manifest.OutputSuffix != ".output.csv" {
		t.Fatalf("unexpected output suffix %q", cfg.Manifest.OutputSuffix)
	}
	if cfg.Ledger.Enabled {
		t.Fatal("expected ledger disabled by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "chipgen.toml")

	type payload struct {
		Paths struct {
			OutputRoot string `toml:"output_root"`
		} `toml:"paths"`
		Collection struct {
			Name             string `toml:"name"`
			SensitiveContent bool   `toml:"sensitive_content"`
		} `toml:"collection"`
		Manifest struct {
			JSONIndent string `toml:"json_indent"`
		} `toml:"manifest"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.OutputRoot = filepath.Join(tempDir, "out")
	custom.Collection.Name = "Spring Drop"
	custom.Collection.SensitiveContent = true
	custom.Manifest.JSONIndent = "  "
	custom.Logging.Format = " JSON "
	custom.Logging.Level = "DEBUG"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config to be read from %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.OutputRoot != filepath.Join(tempDir, "out") {
		t.Fatalf("unexpected output root %q", cfg.Paths.OutputRoot)
	}
	if cfg.Collection.Name != "Spring Drop" || !cfg.Collection.SensitiveContent {
		t.Fatalf("collection not loaded: %+v", cfg.Collection)
	}
	if cfg.Collection.Description != config.Default().Collection.Description {
		t.Fatalf("expected default description to survive partial file, got %q", cfg.Collection.Description)
	}
	if cfg.Manifest.JSONIndent != "  " {
		t.Fatalf("unexpected indent %q", cfg.Manifest.JSONIndent)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "chipgen.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\noutput_rot = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidateRejectsDangerousOutputRoot(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	for _, root := range []string{"/", "~", filepath.Dir(tempHome)} {
		configPath := filepath.Join(t.TempDir(), "chipgen.toml")
		body := "[paths]\noutput_root = \"" + root + "\"\n"
		if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		_, _, _, err := config.Load(configPath)
		if err == nil || !strings.Contains(err.Error(), "output_root") {
			t.Fatalf("output_root %q: expected validation error, got %v", root, err)
		}
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputRoot = filepath.Join(t.TempDir(), "NFTS")
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unsupported log format to fail validation")
	}
}

func TestValidateJSONIndent(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputRoot = filepath.Join(t.TempDir(), "NFTS")
	cfg.Manifest.JSONIndent = "--"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected non-whitespace indent to fail validation")
	}
}

func TestSampleConfigParsesToDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	def := config.Default()
	if cfg.Collection != def.Collection {
		t.Fatalf("sample collection differs from defaults: %+v vs %+v", cfg.Collection, def.Collection)
	}
	if cfg.Manifest != def.Manifest {
		t.Fatalf("sample manifest differs from defaults: %+v vs %+v", cfg.Manifest, def.Manifest)
	}
}

func TestEnsureDirectoriesCreatesLedgerParent(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LedgerPath = filepath.Join(base, "state", "ledger.db")
	cfg.Ledger.Enabled = true

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Paths.LedgerPath)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestValidateJSONStyle(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.OutputRoot = filepath.Join(t.TempDir(), "NFTS")
	for _, style := range []string{"compact", "python"} {
		cfg.Manifest.JSONStyle = style
		if err := cfg.Validate(); err != nil {
			t.Fatalf("json_style %q: %v", style, err)
		}
	}
	cfg.Manifest.JSONStyle = "pretty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown json_style to fail validation")
	}
}

func TestLoadNormalizesJSONStyle(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "chipgen.toml")
	if err := os.WriteFile(configPath, []byte("[manifest]\njson_style = \" Python \"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Manifest.JSONStyle != "python" {
		t.Fatalf("json_style = %q, want python", cfg.Manifest.JSONStyle)
	}
}
