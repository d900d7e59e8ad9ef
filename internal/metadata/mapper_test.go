package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chipgen/internal/attributes"
)

func sampleRow() Row {
	return Row{
		"Name":          "A",
		"Description":   "d",
		"Series Number": "1",
		"UUID":          "u1",
		"Gender":        "F",
		"attributes":    "color:red;size:big",
		"TEAM NAMES":    "Alpha",
		"Filename":      "f1",
	}
}

func TestMapBuildsRecord(t *testing.T) {
	m := NewMapper(DefaultCollection())
	got, err := m.Map("Alpha", sampleRow(), 20)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}

	want := Record{
		Format:       "CHIP-0007",
		Name:         "A",
		Description:  "d",
		MintingTool:  "Alpha",
		SeriesNumber: "1",
		SeriesTotal:  20,
		Attributes: []attributes.Trait{
			{TraitType: "color", Value: "red"},
			{TraitType: "size", Value: "big"},
			{TraitType: "gender", Value: "F"},
		},
		Collection: CollectionRef{
			Name: "Zuri NFT Tickets for Free Lunch",
			ID:   "u1",
			Attributes: []CollectionAttribute{
				{Type: "description", Value: "Rewards for accomplishments during HNGi9"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestMapMissingField(t *testing.T) {
	m := NewMapper(DefaultCollection())
	for _, key := range []string{"Name", "Description", "Series Number", "UUID", "Gender", "attributes"} {
		row := sampleRow()
		delete(row, key)

		_, err := m.Map("Alpha", row, 1)
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("missing %q: expected ErrMissingField, got %v", key, err)
		}
		var mfe *MissingFieldError
		if !errors.As(err, &mfe) || mfe.Field != key {
			t.Fatalf("missing %q: expected field name in error, got %v", key, err)
		}
	}
}

func TestMapUsesInjectedCollection(t *testing.T) {
	m := NewMapper(Collection{
		Format:           "CHIP-9999",
		Name:             "Test Drops",
		Description:      "staging collection",
		SensitiveContent: true,
	})
	got, err := m.Map("Beta", sampleRow(), 3)
	if err != nil {
		t.Fatalf("Map returned error: %v", err)
	}
	if got.Format != "CHIP-9999" || got.Collection.Name != "Test Drops" || !got.SensitiveContent {
		t.Fatalf("collection not applied: %+v", got)
	}
	if got.Collection.Attributes[0].Value != "staging collection" {
		t.Fatalf("unexpected collection description: %+v", got.Collection.Attributes)
	}
}

func TestMapWithDiagnosticsCountsDropped(t *testing.T) {
	row := sampleRow()
	row["attributes"] = "color:red;oops;size:big"
	_, dropped, err := NewMapper(DefaultCollection()).MapWithDiagnostics("Alpha", row, 1)
	if err != nil {
		t.Fatalf("MapWithDiagnostics returned error: %v", err)
	}
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	m := NewMapper(DefaultCollection())
	first, err := m.Map("Alpha", sampleRow(), 2)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Map("Alpha", sampleRow(), 2)
	if err != nil {
		t.Fatal(err)
	}

	a, err := Encode(first, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(second, "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("encodings differ:\n%s\n%s", a, b)
	}

	want := `{"format":"CHIP-0007","name":"A","description":"d","minting_tool":"Alpha","sensitive_content":false,` +
		`"series_number":"1","series_total":2,"attributes":[{"trait_type":"color","value":"red"},` +
		`{"trait_type":"size","value":"big"},{"trait_type":"gender","value":"F"}],` +
		`"collection":{"name":"Zuri NFT Tickets for Free Lunch","id":"u1","attributes":[{"type":"description",` +
		`"value":"Rewards for accomplishments during HNGi9"}]},"data":{"example_data":null}}`
	if string(a) != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", a, want)
	}
}

func TestEncodeIndent(t *testing.T) {
	rec, err := NewMapper(DefaultCollection()).Map("Alpha", sampleRow(), 2)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Encode(rec, "  ")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("{\n  \"format\": \"CHIP-0007\"")) {
		t.Fatalf("expected indented output, got %s", out)
	}
	if bytes.HasSuffix(out, []byte("\n")) {
		t.Fatal("expected no trailing newline")
	}
	var decoded Record
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("indented output is not valid JSON: %v", err)
	}
}
