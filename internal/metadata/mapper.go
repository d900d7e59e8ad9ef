package metadata

import "chipgen/internal/attributes"

// Column names the mapper reads. Header spelling is part of the input contract.
const (
	ColumnName         = "Name"
	ColumnDescription  = "Description"
	ColumnSeriesNumber = "Series Number"
	ColumnUUID         = "UUID"
	ColumnGender       = "Gender"
	ColumnAttributes   = "attributes"
)

// Row is one CSV row keyed by header name.
type Row map[string]string

func (r Row) field(key string) (string, error) {
	value, ok := r[key]
	if !ok {
		return "", &MissingFieldError{Field: key}
	}
	return value, nil
}

// Mapper builds records for a single collection.
type Mapper struct {
	Collection Collection
}

// NewMapper returns a mapper for the given collection.
func NewMapper(collection Collection) *Mapper {
	return &Mapper{Collection: collection}
}

// Map assembles the record for row. It has no side effects; total is copied
// into series_total as given.
func (m *Mapper) Map(team string, row Row, total int) (Record, error) {
	rec, _, err := m.MapWithDiagnostics(team, row, total)
	return rec, err
}

// MapWithDiagnostics is Map that also reports how many attribute segments
// were skipped.
func (m *Mapper) MapWithDiagnostics(team string, row Row, total int) (Record, int, error) {
	values := make(map[string]string, 6)
	for _, key := range []string{ColumnName, ColumnDescription, ColumnSeriesNumber, ColumnUUID, ColumnAttributes, ColumnGender} {
		value, err := row.field(key)
		if err != nil {
			return Record{}, 0, err
		}
		values[key] = value
	}

	parsed := attributes.Parse(values[ColumnAttributes], values[ColumnGender])
	format := m.Collection.Format
	if format == "" {
		format = DefaultFormat
	}

	rec := Record{
		Format:           format,
		Name:             values[ColumnName],
		Description:      values[ColumnDescription],
		MintingTool:      team,
		SensitiveContent: m.Collection.SensitiveContent,
		SeriesNumber:     values[ColumnSeriesNumber],
		SeriesTotal:      total,
		Attributes:       parsed.Traits,
		Collection: CollectionRef{
			Name: m.Collection.Name,
			ID:   values[ColumnUUID],
			Attributes: []CollectionAttribute{
				{Type: "description", Value: m.Collection.Description},
			},
		},
	}
	return rec, parsed.Dropped, nil
}
