// Package config loads, normalizes, and validates chipgen configuration data.
//
// It supplies defaults that reproduce the original minting pipeline (a
// ./NFTS output root, the CHIP-0007 format and the Zuri collection), expands
// user paths including tilde shortcuts, and reads optional TOML files so the
// collection constants and output locations can be changed without code edits.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
