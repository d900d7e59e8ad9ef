package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	root := filepath.Clean(c.Paths.OutputRoot)
	if root == "/" || root == filepath.Dir(root) {
		return fmt.Errorf("paths.output_root %q would wipe a filesystem root", c.Paths.OutputRoot)
	}
	if home, err := expandPath("~"); err == nil && containsPath(root, home) {
		return fmt.Errorf("paths.output_root %q would wipe the home directory", c.Paths.OutputRoot)
	}
	return nil
}

// containsPath reports whether path is root or lies below it.
func containsPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (c *Config) validateManifest() error {
	if strings.ContainsAny(c.Manifest.HashColumn, "\r\n") {
		return errors.New("manifest.hash_column must be a single line")
	}
	if strings.ContainsRune(c.Manifest.OutputSuffix, filepath.Separator) {
		return errors.New("manifest.output_suffix must not contain path separators")
	}
	if strings.Trim(c.Manifest.JSONIndent, " \t") != "" {
		return errors.New("manifest.json_indent may only contain spaces or tabs")
	}
	switch c.Manifest.JSONStyle {
	case "compact", "python":
	default:
		return fmt.Errorf("manifest.json_style: unsupported value %q (use compact or python)", c.Manifest.JSONStyle)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
