package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputPath derives the manifest location for input: the input's directory,
// its base name up to the first '.', then suffix. "data/nfts.v2.csv" with
// ".output.csv" becomes "data/nfts.output.csv".
func OutputPath(input, suffix string) string {
	dir, base := filepath.Split(input)
	stem := base
	if idx := strings.Index(base, "."); idx > 0 {
		stem = base[:idx]
	} else if idx == 0 {
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(dir, stem+suffix)
}

// Writer emits manifest rows: the input record followed by its digest.
type Writer struct {
	file  *os.File
	csv   *csv.Writer
	width int
	rows  int
}

// Create truncates path and writes header plus hashColumn as the first line.
func Create(path string, header []string, hashColumn string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create manifest: %w", err)
	}
	w := csv.NewWriter(file)
	// Manifests are written with CRLF line endings.
	w.UseCRLF = true

	columns := append(append([]string(nil), header...), hashColumn)
	if err := w.Write(columns); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("write manifest header: %w", err)
	}
	return &Writer{file: file, csv: w, width: len(header)}, nil
}

// Write appends record with digest in the trailing column. Short records are
// padded so the digest always lands under the hash column.
func (w *Writer) Write(record []string, digest string) error {
	out := make([]string, w.width+1)
	copy(out, record)
	out[w.width] = digest
	if err := w.csv.Write(out); err != nil {
		return fmt.Errorf("write manifest row: %w", err)
	}
	w.rows++
	return nil
}

// Rows reports how many data rows were written.
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	w.file = nil
	if flushErr != nil {
		return fmt.Errorf("flush manifest: %w", flushErr)
	}
	return closeErr
}
