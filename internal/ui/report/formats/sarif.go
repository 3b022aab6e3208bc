// # internal/ui/report/formats/sarif.go
package formats

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"wake/internal/engine/report"
	"wake/internal/engine/symbols"
	"wake/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

// sarifRules maps each symbol kind to its rule, in kind order.
var sarifRules = []struct {
	kind symbols.Kind
	rule sarifRule
}{
	{symbols.KindFunction, newSARIFRule("WAKE001", "UnusedFunction", "A function is defined but never referenced.")},
	{symbols.KindClass, newSARIFRule("WAKE002", "UnusedClass", "A class is defined but never referenced.")},
	{symbols.KindProperty, newSARIFRule("WAKE003", "UnusedProperty", "A property is defined but never read.")},
	{symbols.KindAttribute, newSARIFRule("WAKE004", "UnusedAttribute", "An attribute is assigned but never read.")},
	{symbols.KindVariable, newSARIFRule("WAKE005", "UnusedVariable", "A variable is assigned but never read.")},
}

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

func newSARIFRule(id, name, description string) sarifRule {
	return sarifRule{
		ID:               id,
		Name:             name,
		ShortDescription: sarifMessage{Text: description},
		DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
	}
}

// GenerateSARIF builds a SARIF v2.1.0 document with one result per unused
// symbol. File URIs are made relative to projectRoot when possible.
func GenerateSARIF(projectRoot string, r *report.Result) ([]byte, error) {
	unused := r.Unused()
	results := make([]sarifResult, 0, len(unused))
	present := make(map[symbols.Kind]bool)

	for _, occ := range unused {
		rule, ok := ruleFor(occ.Kind)
		if !ok {
			continue
		}
		present[occ.Kind] = true
		loc := sarifLocation{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{
					URI:       relativeURI(projectRoot, occ.File),
					URIBaseID: "%SRCROOT%",
				},
			},
		}
		if occ.Line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: occ.Line}
		}
		results = append(results, sarifResult{
			RuleID:    rule.ID,
			Level:     rule.DefaultConfig.Level,
			Message:   sarifMessage{Text: fmt.Sprintf("Unused %s '%s'", occ.Kind, occ.Name)},
			Locations: []sarifLocation{loc},
		})
	}

	// Only the rules that have findings are listed.
	rules := make([]sarifRule, 0, len(present))
	for _, entry := range sarifRules {
		if present[entry.kind] {
			rules = append(rules, entry.rule)
		}
	}

	doc := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "wake",
						Version: version.Version,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}

func ruleFor(kind symbols.Kind) (sarifRule, bool) {
	for _, entry := range sarifRules {
		if entry.kind == kind {
			return entry.rule, true
		}
	}
	return sarifRule{}, false
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}
