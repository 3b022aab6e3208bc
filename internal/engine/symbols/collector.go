package symbols

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	coreerrors "wake/internal/core/errors"
	"wake/internal/engine/parser"
	"wake/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	// HaltOnMain stops the traversal of every file but the first at an
	// if __name__ == "__main__" block.
	HaltOnMain bool
	// Filter drops import-discovered files. May be nil.
	Filter PathFilter
	// Diagnostics receives syntax error reports. Defaults to os.Stdout.
	Diagnostics io.Writer
	Logger      *slog.Logger
}

// Collector drives a single scan: it pops files from the work queue, parses
// them and feeds every definition and use into the accumulators. Files found
// through imports are appended to the queue while the scan runs.
type Collector struct {
	parser *parser.Parser
	finder ModuleFinder
	opts   Options
	logger *slog.Logger

	acc          *Accumulators
	queue        *Queue
	syntaxErrors []string
}

// NewCollector returns a collector. finder may be nil to disable import
// expansion.
func NewCollector(p *parser.Parser, finder ModuleFinder, opts Options) *Collector {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = os.Stdout
	}
	return &Collector{
		parser: p,
		finder: finder,
		opts:   opts,
		logger: opts.Logger,
		acc:    NewAccumulators(opts.Logger),
		queue:  NewQueue(nil),
	}
}

// Run scans files and everything they import. The first entry of files is
// the main file. Unreadable files abort the run; files with syntax errors
// are reported and skipped.
func (c *Collector) Run(ctx context.Context, files []string) error {
	c.queue = NewQueue(files)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, index, ok := c.queue.Pop()
		if !ok {
			return nil
		}
		if err := c.scanFile(ctx, path, index == 0); err != nil {
			return err
		}
	}
}

func (c *Collector) scanFile(ctx context.Context, path string, main bool) error {
	_, span := observability.Tracer.Start(ctx, "symbols.scanFile",
		trace.WithAttributes(attribute.String("path", path), attribute.Bool("main", main)))
	defer span.End()

	c.logger.Debug("scanning", "path", path)
	content, err := os.ReadFile(path)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return coreerrors.AddContext(coreerrors.Wrap(err, coreerrors.CodeIO, "read source file"), coreerrors.CtxPath, path)
	}

	start := time.Now()
	tree, err := c.parser.Parse(path, content)
	observability.ParsingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if errors.As(err, &syntaxErr) {
			c.reportSyntaxError(path, syntaxErr)
			span.SetStatus(codes.Error, "syntax error")
			return nil
		}
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer tree.Close()

	observability.FilesScannedTotal.Inc()
	scan := newFileScan(c, path, content, main)
	scan.walk(tree.Root(), ctxLoad)
	span.SetAttributes(attribute.Bool("halted", scan.halted))
	return nil
}

func (c *Collector) reportSyntaxError(path string, syntaxErr *parser.SyntaxError) {
	observability.SyntaxErrorsTotal.Inc()
	c.syntaxErrors = append(c.syntaxErrors, path)
	c.logger.Warn("syntax error", "path", path, "line", syntaxErr.Line, "column", syntaxErr.Column)
	fmt.Fprintf(c.opts.Diagnostics, "Syntax error in file %s:\n  line %d, column %d: %s\n",
		path, syntaxErr.Line, syntaxErr.Column, syntaxErr.Snippet)
}

func (c *Collector) Accumulators() *Accumulators {
	return c.acc
}

// ImportPaths returns the files added through import discovery, in order.
func (c *Collector) ImportPaths() []string {
	return c.queue.ImportPaths()
}

// Files returns every file that was queued, in scan order.
func (c *Collector) Files() []string {
	return c.queue.Files()
}

// SyntaxErrors returns the files skipped because they failed to parse.
func (c *Collector) SyntaxErrors() []string {
	out := make([]string, len(c.syntaxErrors))
	copy(out, c.syntaxErrors)
	return out
}
