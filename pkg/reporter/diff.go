package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gophpfix/internal/ui/pretty"
	"github.com/yaklabco/gophpfix/pkg/fix"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

// DiffReporter writes the proposed or applied changes as git style
// unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter. It returns the number of changed files.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	return buffered(r.opts, func(bw *bufio.Writer) (int, error) {
		var files, additions, deletions int

		for _, outcome := range result.Files {
			if outcome.Error != nil {
				fmt.Fprintf(bw, "%s: %s\n",
					r.styles.FilePath.Render(r.opts.displayPath(outcome.Path)),
					r.styles.Error.Render(fmt.Sprintf("error: %v", outcome.Error)))
				continue
			}
			if outcome.Result == nil || !outcome.Result.Diff.HasChanges() {
				continue
			}

			diff := outcome.Result.Diff
			files++
			additions += diff.Additions
			deletions += diff.Deletions
			r.writeDiff(bw, r.opts.displayPath(outcome.Path), diff)
		}

		if files > 0 && r.opts.ShowSummary {
			r.writeSummary(bw, files, additions, deletions)
		}
		return files, nil
	})
}

func (r *DiffReporter) writeDiff(bw *bufio.Writer, path string, diff *fix.Diff) {
	path = strings.TrimPrefix(toSlash(path), "/")

	fmt.Fprintln(bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range diff.Hunks {
		fmt.Fprintln(bw, r.styles.DiffHunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)))
		for _, line := range hunk.Lines {
			switch line.Kind {
			case fix.DiffLineAdd:
				fmt.Fprintln(bw, r.styles.DiffAdd.Render("+"+line.Content))
			case fix.DiffLineRemove:
				fmt.Fprintln(bw, r.styles.DiffRemove.Render("-"+line.Content))
			default:
				fmt.Fprintln(bw, r.styles.DiffContext.Render(" "+line.Content))
			}
		}
	}
	fmt.Fprintln(bw)
}

func (r *DiffReporter) writeSummary(bw *bufio.Writer, files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, pluralize(files, "file", "files"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, pluralize(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, pluralize(deletions, "deletion", "deletions"))))
	}
	fmt.Fprintln(bw, strings.Join(parts, ", "))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
