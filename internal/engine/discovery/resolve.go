// Package discovery expands command-line paths into the candidate source
// files of a scan and applies user exclusion patterns to them.
package discovery

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"wake/internal/core/errors"
)

// Resolver expands files and directories into absolute source paths.
type Resolver struct {
	extension string
	warnings  io.Writer
	logger    *slog.Logger
}

// NewResolver returns a Resolver that keeps files ending in extension when
// recursing into directories and writes missing-path warnings to warnings.
func NewResolver(extension string, warnings io.Writer, logger *slog.Logger) *Resolver {
	if warnings == nil {
		warnings = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{extension: extension, warnings: warnings, logger: logger}
}

// Resolve returns absolute file paths in argument order, with directory
// contents in lexicographic order. Top-level files are kept whatever their
// extension; files found inside directories must carry the source extension.
// Missing top-level paths are warned about and skipped.
func (r *Resolver) Resolve(paths []string) ([]string, error) {
	return r.resolve(paths, true)
}

func (r *Resolver) resolve(paths []string, toplevel bool) ([]string, error) {
	var files []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "resolve absolute path"), errors.CtxPath, p)
		}

		info, err := os.Stat(abs)
		switch {
		case err == nil && info.Mode().IsRegular():
			if toplevel || filepath.Ext(abs) == r.extension {
				files = append(files, abs)
			}
		case err == nil && info.IsDir():
			children, err := r.listDir(abs)
			if err != nil {
				return nil, err
			}
			nested, err := r.resolve(children, false)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
		case toplevel:
			fmt.Fprintf(r.warnings, "Warning: %s could not be found.\n", abs)
			r.logger.Warn("path could not be found", "path", abs)
		}
	}
	return files, nil
}

func (r *Resolver) listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "list directory"), errors.CtxPath, dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	children := make([]string, 0, len(names))
	for _, name := range names {
		children = append(children, filepath.Join(dir, name))
	}
	return children, nil
}
