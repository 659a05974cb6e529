package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine renders run statistics as one line, for example
// "3 issues (3 warnings) in 2 files, 3 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, "file", "files"))))
	} else {
		issues := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
		if breakdown := s.severityBreakdown(stats); breakdown != "" {
			issues += " (" + breakdown + ")"
		}
		parts = append(parts, issues,
			fmt.Sprintf("in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files")))
		if stats.DiagnosticsFixable > 0 {
			parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
		}
	}

	if stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s fixed in %d %s",
			stats.EditsApplied, plural(stats.EditsApplied, "edit", "edits"),
			stats.FilesModified, plural(stats.FilesModified, "file", "files"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, "file", "files"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) severityBreakdown(stats runner.Stats) string {
	var parts []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}
	return strings.Join(parts, ", ")
}

// FormatSummary renders run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	row := func(label string, value string) {
		fmt.Fprintf(&b, "  %-19s%s\n", label+":", value)
	}

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesModified > 0 {
		row("Files modified", s.Success.Render(strconv.Itoa(stats.FilesModified)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Warning.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Error.Render(strconv.Itoa(stats.FilesErrored)))
	}
	b.WriteString("\n")

	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	row("Fixable", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsFixable)))
	if stats.EditsApplied > 0 {
		row("Edits applied", s.Success.Render(strconv.Itoa(stats.EditsApplied)))
	}
	if stats.RuleErrors > 0 {
		row("Fixer errors", s.Error.Render(strconv.Itoa(stats.RuleErrors)))
	}
	b.WriteString("\n")

	switch {
	case stats.FilesErrored > 0 || stats.DiagnosticsBySeverity[config.SeverityError] > 0:
		b.WriteString(s.Failure.Render("Completed with errors"))
	case stats.DiagnosticsTotal > 0 && stats.FilesModified == 0:
		b.WriteString(s.Warning.Render("Fixes available"))
	default:
		b.WriteString(s.Success.Render("Done"))
	}
	b.WriteString("\n")

	return b.String()
}
