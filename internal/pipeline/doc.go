// Package pipeline drives a generate run: it resolves team membership row by
// row, writes one CHIP-0007 metadata file per row under a team directory,
// hashes each file after it is written and records the digest in the output
// manifest.
//
// Team resolution is an explicit state machine (State and Advance) so it can
// be exercised without touching the filesystem. Wiping the output root is a
// separate PrepareOutputRoot step that Run calls under a file lock; nothing
// happens at import time.
//
// The package also re-verifies finished manifests against the files on disk.
package pipeline
