// Package ledger keeps an optional SQLite history of generate runs and the
// digest of every metadata file they produced.
//
// Store implements pipeline.Recorder. The schema is created from embedded
// migrations when the database is opened.
package ledger
