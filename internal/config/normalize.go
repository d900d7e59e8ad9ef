package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCollection()
	c.normalizeManifest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputRoot) == "" {
		c.Paths.OutputRoot = defaultOutputRoot
	}
	if c.Paths.OutputRoot, err = expandPath(strings.TrimSpace(c.Paths.OutputRoot)); err != nil {
		return fmt.Errorf("paths.output_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(strings.TrimSpace(c.Paths.LedgerPath)); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCollection() {
	c.Collection.Format = strings.TrimSpace(c.Collection.Format)
	if c.Collection.Format == "" {
		c.Collection.Format = defaultFormat
	}
}

func (c *Config) normalizeManifest() {
	if c.Manifest.HashColumn == "" {
		c.Manifest.HashColumn = defaultHashColumn
	}
	c.Manifest.OutputSuffix = strings.TrimSpace(c.Manifest.OutputSuffix)
	if c.Manifest.OutputSuffix == "" {
		c.Manifest.OutputSuffix = defaultOutputSuffix
	}
	c.Manifest.JSONStyle = strings.ToLower(strings.TrimSpace(c.Manifest.JSONStyle))
	if c.Manifest.JSONStyle == "" {
		c.Manifest.JSONStyle = defaultJSONStyle
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
