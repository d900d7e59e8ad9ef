// Package main hosts the chipgen CLI entrypoint and command graph.
//
// Running chipgen with no subcommand behaves like "chipgen generate": the
// input CSV is taken from the first argument, the --input flag, or an
// interactive prompt. The remaining commands verify a manifest against the
// files on disk, list the run ledger, and scaffold configuration.
//
// Keep this package lean: behavior lives in the internal packages and the
// commands here only resolve inputs, wire dependencies, and render results.
package main
