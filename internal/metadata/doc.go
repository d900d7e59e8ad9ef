// Package metadata maps a single minting CSV row onto a CHIP-0007 metadata
// record and encodes it deterministically.
//
// Collection-wide constants (format, collection name and description,
// sensitive content flag) are injected through Collection so tests and
// alternate collections do not need to touch the mapping code.
package metadata
