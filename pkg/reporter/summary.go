package reporter

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/gophpfix/internal/ui/pretty"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

// RuleCount aggregates the diagnostics of one fixer.
type RuleCount struct {
	RuleID   string
	RuleName string
	Issues   int
	Fixable  int
	Files    int
}

// CountByRule aggregates diagnostics per fixer, most frequent first, then
// by ID.
func CountByRule(result *runner.Result) []RuleCount {
	if result == nil {
		return nil
	}

	byID := make(map[string]*RuleCount)
	for _, outcome := range result.Files {
		pr := outcome.Result
		if pr == nil || pr.FileResult == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, diag := range pr.Diagnostics {
			rc, ok := byID[diag.RuleID]
			if !ok {
				rc = &RuleCount{RuleID: diag.RuleID, RuleName: diag.RuleName}
				byID[diag.RuleID] = rc
			}
			rc.Issues++
			if diag.HasFix() {
				rc.Fixable++
			}
			if !seen[diag.RuleID] {
				seen[diag.RuleID] = true
				rc.Files++
			}
		}
	}

	counts := make([]RuleCount, 0, len(byID))
	for _, rc := range byID {
		counts = append(counts, *rc)
	}
	slices.SortFunc(counts, func(a, b RuleCount) int {
		return cmp.Or(cmp.Compare(b.Issues, a.Issues), cmp.Compare(a.RuleID, b.RuleID))
	})
	return counts
}

// SummaryReporter writes per-fixer counts followed by the run summary.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewSummaryReporter creates a summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		result = &runner.Result{}
	}

	return buffered(r.opts, func(bw *bufio.Writer) (int, error) {
		counts := CountByRule(result)
		if len(counts) > 0 {
			fmt.Fprintln(bw, r.styles.SummaryTitle.Render("Fixers"))
			for _, rc := range counts {
				name := config.FormatRuleID(r.opts.RuleFormat, rc.RuleID, rc.RuleName)
				fmt.Fprintf(bw, "  %-40s %5d %s  %5d fixable  %5d %s\n",
					name,
					rc.Issues, pluralize(rc.Issues, "issue ", "issues"),
					rc.Fixable,
					rc.Files, pluralize(rc.Files, "file", "files"))
			}
		}
		fmt.Fprint(bw, r.styles.FormatSummary(result.Stats))
		return result.Stats.DiagnosticsTotal, nil
	})
}
