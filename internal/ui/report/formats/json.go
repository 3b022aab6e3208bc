package formats

import (
	"encoding/json"

	"wake/internal/engine/report"
	"wake/internal/engine/symbols"
	"wake/internal/shared/version"
)

// jsonReport is also the data contract for tools that consume the unused
// list and import paths, such as a project minimiser.
type jsonReport struct {
	Tool         string               `json:"tool"`
	Version      string               `json:"version"`
	ImportPaths  []string             `json:"import_paths"`
	SyntaxErrors []string             `json:"syntax_errors"`
	Counts       report.Counts        `json:"counts"`
	Unused       []symbols.Occurrence `json:"unused"`
}

func GenerateJSON(r *report.Result) ([]byte, error) {
	doc := jsonReport{
		Tool:         "wake",
		Version:      version.Version,
		ImportPaths:  nonNil(r.ImportPaths()),
		SyntaxErrors: nonNil(r.SyntaxErrors()),
		Counts:       r.Counts(),
		Unused:       r.Unused(),
	}
	if doc.Unused == nil {
		doc.Unused = []symbols.Occurrence{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
