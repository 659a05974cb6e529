// Package reporter writes runner results as text, JSON, SARIF, diffs or a
// summary.
package reporter

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/gophpfix/pkg/runner"
)

// Reporter formats and writes a run result.
type Reporter interface {
	// Report writes output for result and returns the number of items
	// reported: diagnostics, or changed files for the diff format.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates the Reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	switch opts.Format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// buffered runs write against a buffered writer and flushes it, keeping the
// first error.
func buffered(opts Options, write func(bw *bufio.Writer) (int, error)) (n int, err error) {
	bw := bufio.NewWriterSize(opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil && flushErr != nil {
			err = fmt.Errorf("flush output: %w", flushErr)
		}
	}()
	return write(bw)
}
