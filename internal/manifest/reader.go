package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"chipgen/internal/metadata"
)

// Input columns that are not consumed by the metadata mapper.
const (
	ColumnTeamName = "TEAM NAMES"
	ColumnFilename = "Filename"
)

// RequiredColumns lists every header the generator depends on, in the order
// producers of the input CSV emit them.
var RequiredColumns = []string{
	metadata.ColumnName,
	metadata.ColumnDescription,
	metadata.ColumnSeriesNumber,
	metadata.ColumnUUID,
	metadata.ColumnGender,
	metadata.ColumnAttributes,
	ColumnTeamName,
	ColumnFilename,
}

// ErrInvalidTotal reports a series total that is not an integer.
var ErrInvalidTotal = errors.New("invalid series total")

// Entry holds the columns the pipeline driver needs directly.
type Entry struct {
	TeamName     string `csv:"TEAM NAMES"`
	Filename     string `csv:"Filename"`
	SeriesNumber string `csv:"Series Number"`
}

// Row is one decoded data row.
type Row struct {
	// Number is the 1-based data row index (the header is row 0).
	Number int
	Entry  Entry
	// Fields maps header names to values for the metadata mapper.
	Fields metadata.Row
	// Record holds the raw values in header order.
	Record []string
}

// Reader iterates over the data rows of an input CSV.
type Reader struct {
	file   *os.File
	dec    *csvutil.Decoder
	header []string
	rows   int
}

// Open opens path, reads the header and checks that RequiredColumns plus any
// extra columns are present. A leading byte order mark is honoured.
func Open(path string, extra ...string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	csvReader := csv.NewReader(transform.NewReader(file, unicode.BOMOverride(transform.Nop)))
	csvReader.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		_ = file.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: %s is empty", path)
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	header := append([]string(nil), dec.Header()...)
	required := append(append([]string(nil), RequiredColumns...), extra...)
	if err := checkColumns(header, required); err != nil {
		_ = file.Close()
		return nil, err
	}

	return &Reader{file: file, dec: dec, header: header}, nil
}

func checkColumns(header, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}
	for _, name := range required {
		if _, ok := present[name]; !ok {
			return &metadata.MissingFieldError{Field: name}
		}
	}
	return nil
}

// Header returns the input header in file order.
func (r *Reader) Header() []string {
	return append([]string(nil), r.header...)
}

// Next decodes the following row. It returns io.EOF when the input is exhausted.
func (r *Reader) Next() (Row, error) {
	var entry Entry
	if err := r.dec.Decode(&entry); err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("decode csv row %d: %w", r.rows+1, err)
	}
	r.rows++

	record := append([]string(nil), r.dec.Record()...)
	fields := make(metadata.Row, len(r.header))
	for i, name := range r.header {
		if i < len(record) {
			fields[name] = record[i]
		}
	}
	return Row{Number: r.rows, Entry: entry, Fields: fields, Record: record}, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// SeriesTotal scans path and returns the Series Number of the final data row,
// which is the total shared by every token of the run. An input without data
// rows has a total of 0.
func SeriesTotal(path string) (int, error) {
	r, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var last *Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		last = &row
	}
	if last == nil {
		return 0, nil
	}

	raw := strings.TrimSpace(last.Entry.SeriesNumber)
	total, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d has %s %q", ErrInvalidTotal, last.Number, metadata.ColumnSeriesNumber, raw)
	}
	return total, nil
}
