// Package symbols collects definition and use events for Python names across
// every file of a scan. It works on flat name identity: no scope resolution
// is attempted, a use anywhere in the corpus matches a definition anywhere.
package symbols

import "fmt"

type Kind int

const (
	KindFunction Kind = iota
	KindClass
	KindProperty
	KindAttribute
	KindVariable
)

var kindNames = [...]string{
	KindFunction:  "function",
	KindClass:     "class",
	KindProperty:  "property",
	KindAttribute: "attribute",
	KindVariable:  "variable",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText renders the kind by name in JSON and other text encodings.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Occurrence is one definition event. Name is the identity used for set
// operations; the location fields are only for display.
type Occurrence struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}
