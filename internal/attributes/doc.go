// Package attributes parses the semicolon-delimited trait strings found in
// minting CSVs into CHIP-0007 trait records.
//
// Parsing is lenient: segments without a ':' separator are skipped and only
// counted, and the pieces of a segment are kept exactly as written. A gender
// trait is always appended so every token carries at least one attribute.
package attributes
