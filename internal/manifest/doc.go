// Package manifest reads minting CSVs and writes the hash-augmented output
// manifest.
//
// Columns are located by header name. Open validates the required set up
// front and fails with a metadata.MissingFieldError naming the first absent
// column, so a renamed header is reported before any file is generated.
package manifest
