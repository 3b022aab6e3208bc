// Package formats renders a scan result for humans and tools.
package formats

import (
	"fmt"
	"io"
	"strings"

	"wake/internal/core/errors"
	"wake/internal/engine/report"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTSV   = "tsv"
	FormatSARIF = "sarif"
)

// Options tune rendering. Root is used to relativize paths in SARIF output.
type Options struct {
	Color bool
	Root  string
}

// Render writes r to w in the named format.
func Render(w io.Writer, format string, r *report.Result, opts Options) error {
	var (
		out []byte
		err error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		out = []byte(GenerateText(r, opts.Color))
	case FormatJSON:
		out, err = GenerateJSON(r)
	case FormatTSV:
		out = []byte(GenerateTSV(r))
	case FormatSARIF:
		out, err = GenerateSARIF(opts.Root, r)
	default:
		return errors.New(errors.CodeNotSupported, fmt.Sprintf("unknown output format %q", format))
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "render "+format)
	}
	_, err = w.Write(out)
	return err
}
