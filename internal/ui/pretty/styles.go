// Package pretty renders gophpfix terminal output with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles holds the lipgloss styles used for CLI output. Source and diff
// styles keep tabs as they are.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style
	Risky      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return plainStyles()
	}

	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	verbatim := func(style lipgloss.Style) lipgloss.Style {
		return style.TabWidth(lipgloss.NoTabConversion)
	}

	return &Styles{
		Error:   fg("9").Bold(true),
		Warning: fg("11").Bold(true),
		Info:    fg("12").Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   fg("8"),
		RuleID:     fg("8"),
		Message:    lipgloss.NewStyle(),
		Suggestion: fg("10").Italic(true),
		SourceLine: verbatim(fg("7")),
		Caret:      fg("9"),
		Risky:      fg("13"),

		DiffHeader:  verbatim(lipgloss.NewStyle().Bold(true)),
		DiffHunk:    verbatim(fg("14")),
		DiffAdd:     verbatim(fg("10")),
		DiffRemove:  verbatim(fg("9")),
		DiffContext: verbatim(fg("8")),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      fg("10").Bold(true),
		Failure:      fg("9").Bold(true),

		Dim:  fg("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func plainStyles() *Styles {
	plain := lipgloss.NewStyle()
	verbatim := plain.TabWidth(lipgloss.NoTabConversion)
	return &Styles{
		Error: plain, Warning: plain, Info: plain,
		FilePath: plain, Location: plain, RuleID: plain, Message: plain,
		Suggestion: plain, SourceLine: verbatim, Caret: plain, Risky: plain,
		DiffHeader: verbatim, DiffHunk: verbatim, DiffAdd: verbatim, DiffRemove: verbatim, DiffContext: verbatim,
		SummaryTitle: plain, SummaryValue: plain, Success: plain, Failure: plain,
		Dim: plain, Bold: plain,
	}
}

// IsColorEnabled decides whether to color output written to w.
// In auto mode color requires a terminal and an unset NO_COLOR.
func IsColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
