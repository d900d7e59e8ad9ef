package metadata

import "chipgen/internal/attributes"

// DefaultFormat is the CHIP schema identifier written to every record.
const DefaultFormat = "CHIP-0007"

// Record is the per-token JSON document. Field order fixes the key order of
// the encoded file.
type Record struct {
	Format           string             `json:"format"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	MintingTool      string             `json:"minting_tool"`
	SensitiveContent bool               `json:"sensitive_content"`
	SeriesNumber     string             `json:"series_number"`
	SeriesTotal      int                `json:"series_total"`
	Attributes       []attributes.Trait `json:"attributes"`
	Collection       CollectionRef      `json:"collection"`
	Data             Data               `json:"data"`
}

// CollectionRef identifies the collection a token belongs to.
type CollectionRef struct {
	Name       string                `json:"name"`
	ID         string                `json:"id"`
	Attributes []CollectionAttribute `json:"attributes"`
}

// CollectionAttribute is a typed collection-level attribute.
type CollectionAttribute struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Data is the placeholder payload; ExampleData is always encoded as null.
type Data struct {
	ExampleData *string `json:"example_data"`
}

// Collection carries the values shared by every record of a run.
type Collection struct {
	Format           string
	Name             string
	Description      string
	SensitiveContent bool
}

// DefaultCollection returns the collection the minting pipeline was built for.
func DefaultCollection() Collection {
	return Collection{
		Format:      DefaultFormat,
		Name:        "Zuri NFT Tickets for Free Lunch",
		Description: "Rewards for accomplishments during HNGi9",
	}
}
