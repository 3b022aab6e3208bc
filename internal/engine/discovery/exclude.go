package discovery

import (
	"log/slog"
	"strings"

	"wake/internal/core/errors"
	"wake/internal/shared/observability"

	"github.com/gobwas/glob"
)

// Filter drops paths matching any exclusion pattern.
type Filter struct {
	patterns []string
	globs    []glob.Glob
	logger   *slog.Logger
}

// NormalizePattern turns a pattern without glob metacharacters into a
// substring match.
func NormalizePattern(pattern string) string {
	if strings.ContainsAny(pattern, "*?[") {
		return pattern
	}
	return "*" + pattern + "*"
}

// escapeLiterals quotes braces and backslashes so that only '*', '?' and
// bracket classes act as wildcards. Inside a class only backslashes are
// quoted.
func escapeLiterals(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	inClass := false
	for _, r := range pattern {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
			continue
		case inClass:
			inClass = r != ']'
		case r == '[':
			inClass = true
		case r == '{' || r == '}':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NewFilter compiles patterns. Matching is case-sensitive against the full
// path and '*' crosses path separators.
func NewFilter(patterns []string, logger *slog.Logger) (*Filter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{logger: logger}
	for _, raw := range patterns {
		pattern := NormalizePattern(raw)
		g, err := glob.Compile(escapeLiterals(pattern))
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid exclude pattern"), errors.CtxPattern, raw)
		}
		f.patterns = append(f.patterns, pattern)
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Patterns returns the normalized patterns in input order.
func (f *Filter) Patterns() []string {
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}

// Excluded reports whether path matches any pattern.
func (f *Filter) Excluded(path string) bool {
	if f == nil {
		return false
	}
	for _, g := range f.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Apply returns the paths that are not excluded, preserving order.
func (f *Filter) Apply(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		if f.Excluded(path) {
			f.logger.Debug("excluded", "path", path)
			observability.FilesExcludedTotal.Inc()
			continue
		}
		kept = append(kept, path)
	}
	return kept
}
