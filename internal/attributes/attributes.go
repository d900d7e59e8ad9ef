package attributes

import "strings"

const (
	segmentSeparator = ";"
	pairSeparator    = ":"

	// GenderTrait is the trait_type of the record appended for the gender column.
	GenderTrait = "gender"
)

// Trait is a single CHIP-0007 attribute.
type Trait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Result holds the parsed traits and the number of segments that were skipped
// because they carried no ':' separator.
type Result struct {
	Traits  []Trait
	Dropped int
}

// Parse splits attr on ';' and turns every "key:value" segment into a Trait.
// Keys and values are not trimmed. Only the first two ':' pieces are used, so
// "a:b:c" yields {a, b}. The gender trait is appended last, even when gender
// is empty.
func Parse(attr, gender string) Result {
	segments := strings.Split(strings.TrimSpace(attr), segmentSeparator)

	res := Result{Traits: make([]Trait, 0, len(segments)+1)}
	for _, segment := range segments {
		if !strings.Contains(segment, pairSeparator) {
			// An empty attr string splits into one empty segment; that is not
			// a malformed entry.
			if segment != "" {
				res.Dropped++
			}
			continue
		}
		pieces := strings.Split(segment, pairSeparator)
		res.Traits = append(res.Traits, Trait{TraitType: pieces[0], Value: pieces[1]})
	}
	res.Traits = append(res.Traits, Trait{TraitType: GenderTrait, Value: gender})
	return res
}

// Traits is Parse without the diagnostics.
func Traits(attr, gender string) []Trait {
	return Parse(attr, gender).Traits
}
