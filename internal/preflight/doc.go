// Package preflight provides readiness checks for the filesystem paths a
// generate run touches.
//
// The generate command calls RunAll before the output root is wiped so that a
// run with an unreadable input or an unwritable destination fails before any
// existing output is removed. Each check returns a Result rather than an error
// so callers can render every outcome at once.
package preflight
