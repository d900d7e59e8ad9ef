// Package logging assembles structured slog loggers and formatting helpers used
// across chipgen.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so pipeline code can tag log lines
// with the run ID, team and row being processed. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
