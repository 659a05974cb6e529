package reporter

import (
	"bufio"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/gophpfix/internal/ui/pretty"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

// TextReporter writes diagnostics grouped by file.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	return buffered(r.opts, func(bw *bufio.Writer) (int, error) {
		if result == nil || len(result.Files) == 0 {
			if r.opts.ShowSummary {
				fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
			}
			return 0, nil
		}

		total := 0
		for _, outcome := range result.Files {
			total += r.writeFile(bw, outcome)
		}

		if r.opts.ShowSummary {
			fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
		return total, nil
	})
}

func (r *TextReporter) writeFile(bw *bufio.Writer, outcome runner.FileOutcome) int {
	path := r.opts.displayPath(outcome.Path)

	if outcome.Error != nil {
		fmt.Fprintf(bw, "%s: %s\n", r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", outcome.Error)))
		return 0
	}

	pr := outcome.Result
	if pr == nil || pr.FileResult == nil {
		return 0
	}
	if pr.Skipped {
		fmt.Fprintf(bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Warning.Render(pr.Summary()))
	}
	for _, id := range slices.Sorted(maps.Keys(pr.RuleErrors)) {
		fmt.Fprintf(bw, "%s: %s\n", r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("fixer %s failed: %v", id, pr.RuleErrors[id])))
	}
	if len(pr.Diagnostics) == 0 {
		return 0
	}

	fmt.Fprintln(bw, r.styles.FormatFileHeader(path, len(pr.Diagnostics)))
	for i := range pr.Diagnostics {
		diag := pr.Diagnostics[i]
		diag.FilePath = path

		var line string
		if r.opts.ShowContext && pr.File != nil {
			line = string(pr.File.LineContent(diag.StartLine))
		}
		fmt.Fprint(bw, r.styles.FormatDiagnostic(&diag, line, r.opts.RuleFormat))
	}
	fmt.Fprintln(bw)

	return len(pr.Diagnostics)
}
