package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic renders one diagnostic:
//
//	path:line:col  severity  message  (rule)
//
// followed by the source line with a caret when sourceLine is not empty,
// and the suggestion when there is one.
func (s *Styles) FormatDiagnostic(diag *fixer.Diagnostic, sourceLine string, ruleFormat config.RuleFormat) string {
	var b strings.Builder

	rule := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)
	fmt.Fprintf(&b, "  %s:%s  %s  %s  %s\n",
		s.FilePath.Render(diag.FilePath),
		s.Location.Render(fmt.Sprintf("%d:%d", diag.StartLine, diag.StartColumn)),
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+rule+")"),
	)

	if sourceLine != "" {
		b.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn))
	}
	if diag.Suggestion != "" {
		b.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return b.String()
}

// FormatSeverity renders a severity name in its color.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext renders a source line with a caret under column.
// Tabs are kept so the caret lines up.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var b strings.Builder
	b.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		pad := make([]byte, 0, column-1)
		for i := 0; i < column-1 && i < len(line); i++ {
			if line[i] == '\t' {
				pad = append(pad, '\t')
			} else {
				pad = append(pad, ' ')
			}
		}
		b.WriteString(contextIndent + string(pad) + s.Caret.Render("^") + "\n")
	}

	return b.String()
}

// FormatFileHeader renders a file path with its diagnostic count.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	switch {
	case count == 1:
		header += s.Dim.Render(" (1 issue)")
	case count > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", count))
	}
	return header
}

// FormatRiskyBadge marks a fixer that may change behavior.
func (s *Styles) FormatRiskyBadge(risky bool) string {
	if !risky {
		return ""
	}
	return s.Risky.Render("[risky]")
}
