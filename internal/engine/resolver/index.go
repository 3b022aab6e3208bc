// Package resolver maps imported module names to source files through a
// two-level index of candidate directories.
package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SearchIndex is the ordered list of directories probed when resolving an
// import. It holds the start directories followed by their immediate child
// directories.
type SearchIndex struct {
	dirs      []string
	extension string
}

// BuildSearchIndex indexes cwd and every existing directory of searchPath,
// then appends the immediate subdirectories of each, skipping duplicates.
func BuildSearchIndex(cwd string, searchPath []string, extension string) *SearchIndex {
	idx := &SearchIndex{extension: extension}
	seen := make(map[string]bool)

	add := func(dir string) bool {
		clean := filepath.Clean(dir)
		if seen[clean] {
			return false
		}
		seen[clean] = true
		idx.dirs = append(idx.dirs, clean)
		return true
	}

	starts := make([]string, 0, len(searchPath)+1)
	if cwd != "" {
		add(cwd)
		starts = append(starts, filepath.Clean(cwd))
	}
	for _, dir := range searchPath {
		if strings.TrimSpace(dir) == "" || !isDir(dir) {
			continue
		}
		if add(dir) {
			starts = append(starts, filepath.Clean(dir))
		}
	}

	for _, start := range starts {
		entries, err := os.ReadDir(start)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			child := filepath.Join(start, name)
			if isDir(child) {
				add(child)
			}
		}
	}
	return idx
}

// Dirs returns the indexed directories in probe order.
func (s *SearchIndex) Dirs() []string {
	out := make([]string, len(s.dirs))
	copy(out, s.dirs)
	return out
}

// Find probes each indexed directory for <name><extension> and returns the
// absolute path of the first match. Dotted names map to nested directories.
func (s *SearchIndex) Find(name string) (string, bool) {
	rel := moduleFile(name, s.extension)
	if rel == "" {
		return "", false
	}
	for _, dir := range s.dirs {
		if path, ok := probe(dir, rel); ok {
			return path, true
		}
	}
	return "", false
}

// FindRelative resolves a relative import of the given level (one per leading
// dot) from the directory of the importing file.
func (s *SearchIndex) FindRelative(fromFile string, level int, name string) (string, bool) {
	if level < 1 {
		return s.Find(name)
	}
	rel := moduleFile(name, s.extension)
	if rel == "" {
		return "", false
	}
	dir := filepath.Dir(fromFile)
	for i := 1; i < level; i++ {
		dir = filepath.Dir(dir)
	}
	return probe(dir, rel)
}

func moduleFile(name, extension string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	parts := strings.Split(name, ".")
	for _, part := range parts {
		if part == "" {
			return ""
		}
	}
	return filepath.Join(parts...) + extension
}

func probe(dir, rel string) (string, bool) {
	candidate := filepath.Join(dir, rel)
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	return abs, true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
