// Package report turns the accumulated definition and use events of a scan
// into the sorted lists of unused symbols.
package report

import (
	"sort"
	"strings"

	"wake/internal/engine/symbols"
	"wake/internal/shared/observability"
)

// Source is the finished state of a collector run.
type Source interface {
	Accumulators() *symbols.Accumulators
	ImportPaths() []string
	Files() []string
	SyntaxErrors() []string
}

// Counts holds the number of unused symbols per category. Functions
// includes classes.
type Counts struct {
	Functions  int `json:"functions"`
	Properties int `json:"properties"`
	Variables  int `json:"variables"`
	Attributes int `json:"attributes"`
	Total      int `json:"total"`
}

// Result is the outcome of Analyze. Category lists are sorted by name,
// Unused by location.
type Result struct {
	Functions  []symbols.Occurrence
	Properties []symbols.Occurrence
	Variables  []symbols.Occurrence
	Attributes []symbols.Occurrence

	unused       []symbols.Occurrence
	importPaths  []string
	files        []string
	syntaxErrors []string
}

// Analyze computes the unused symbols of src:
//
//	functions  = defined functions and classes not used as a name or attribute
//	properties = defined properties never read as an attribute
//	variables  = defined variables not read, not read as an attribute, not tuple targets
//	attributes = defined attributes never read as an attribute
func Analyze(src Source) *Result {
	acc := src.Accumulators()
	usedFuncs := nameSet(acc.UsedFuncs)
	usedAttrs := nameSet(acc.UsedAttrs)
	usedVars := nameSet(acc.UsedVars)
	tupleVars := nameSet(acc.TupleAssignVars)

	r := &Result{
		Functions:    unused(acc.DefinedFuncs, usedFuncs, usedAttrs),
		Properties:   unused(acc.DefinedProps, usedAttrs),
		Variables:    unused(acc.DefinedVars, usedVars, usedAttrs, tupleVars),
		Attributes:   unused(acc.DefinedAttrs, usedAttrs),
		importPaths:  src.ImportPaths(),
		files:        src.Files(),
		syntaxErrors: src.SyntaxErrors(),
	}

	merged := make([]symbols.Occurrence, 0, len(r.Functions)+len(r.Properties)+len(r.Variables)+len(r.Attributes))
	merged = append(merged, r.Functions...)
	merged = append(merged, r.Properties...)
	merged = append(merged, r.Variables...)
	merged = append(merged, r.Attributes...)
	sort.SliceStable(merged, func(i, j int) bool {
		pi, pj := strings.ToLower(merged[i].File), strings.ToLower(merged[j].File)
		if pi != pj {
			return pi < pj
		}
		return merged[i].Line < merged[j].Line
	})
	r.unused = merged

	r.recordMetrics()
	return r
}

// Unused returns every unused symbol ordered by file and line.
func (r *Result) Unused() []symbols.Occurrence {
	out := make([]symbols.Occurrence, len(r.unused))
	copy(out, r.unused)
	return out
}

// ImportPaths returns the files that were only reached through imports.
func (r *Result) ImportPaths() []string {
	return r.importPaths
}

func (r *Result) Files() []string {
	return r.files
}

func (r *Result) SyntaxErrors() []string {
	return r.syntaxErrors
}

func (r *Result) Counts() Counts {
	return Counts{
		Functions:  len(r.Functions),
		Properties: len(r.Properties),
		Variables:  len(r.Variables),
		Attributes: len(r.Attributes),
		Total:      len(r.unused),
	}
}

func (r *Result) recordMetrics() {
	perKind := map[symbols.Kind]int{
		symbols.KindFunction:  0,
		symbols.KindClass:     0,
		symbols.KindProperty:  0,
		symbols.KindVariable:  0,
		symbols.KindAttribute: 0,
	}
	for _, occ := range r.unused {
		perKind[occ.Kind]++
	}
	for kind, n := range perKind {
		observability.UnusedSymbols.WithLabelValues(kind.String()).Set(float64(n))
	}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// unused keeps the first occurrence of every defined name that is absent
// from all used sets, sorted case-insensitively by name.
func unused(defined []symbols.Occurrence, used ...map[string]struct{}) []symbols.Occurrence {
	seen := make(map[string]bool, len(defined))
	var out []symbols.Occurrence
	for _, occ := range defined {
		if seen[occ.Name] {
			continue
		}
		seen[occ.Name] = true
		if inAny(occ.Name, used) {
			continue
		}
		out = append(out, occ)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if li != lj {
			return li < lj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func inAny(name string, sets []map[string]struct{}) bool {
	for _, s := range sets {
		if _, ok := s[name]; ok {
			return true
		}
	}
	return false
}
