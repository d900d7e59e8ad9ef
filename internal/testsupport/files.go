package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// Header is the column layout produced by the minting spreadsheet.
var Header = []string{"Name", "Description", "Series Number", "UUID", "Gender", "attributes", "TEAM NAMES", "Filename"}

// TwoRowCSV is the canonical two-token fixture: row 2 inherits team Alpha.
var TwoRowCSV = [][]string{
	{"A", "d", "1", "u1", "F", "color:red;size:big", "Alpha", "f1"},
	{"B", "d", "2", "u2", "M", "", "", "f2"},
}

// WriteCSV writes header and rows to dir/name and returns the path.
func WriteCSV(t testing.TB, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

// ReadCSV returns every record of path, header included.
func ReadCSV(t testing.TB, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}
