package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gophpfix/internal/ui/pretty"
)

// flagNamePattern matches the short and long names in a pflag usage line.
var flagNamePattern = regexp.MustCompile(`--?[A-Za-z0-9][\w-]*`)

// HelpStyles holds the styles used to render command help.
type HelpStyles struct {
	Command lipgloss.Style
	Heading lipgloss.Style
	Name    lipgloss.Style
	Flag    lipgloss.Style
	Muted   lipgloss.Style
}

// NewHelpStyles returns colored styles, or plain ones when color is off.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &HelpStyles{Command: plain, Heading: plain, Name: plain, Flag: plain, Muted: plain}
	}
	return &HelpStyles{
		Command: plain.Foreground(lipgloss.Color("14")).Bold(true),
		Heading: plain.Foreground(lipgloss.Color("11")).Bold(true),
		Name:    plain.Foreground(lipgloss.Color("10")),
		Flag:    plain.Foreground(lipgloss.Color("12")),
		Muted:   plain.Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage for a command tree.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a formatter for the given --color mode and output.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

// ApplyToCommand installs the formatter on cmd. Subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		out := command.OutOrStdout()
		if text := strings.TrimSpace(firstNonEmpty(command.Long, command.Short)); text != "" {
			fmt.Fprintf(out, "%s\n\n", trimLines(text))
		}
		fmt.Fprint(out, h.Usage(command))
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		_, err := fmt.Fprint(command.OutOrStderr(), h.Usage(command))
		return err
	})
}

// Usage renders the usage block of cmd.
func (h *HelpFormatter) Usage(cmd *cobra.Command) string {
	var b strings.Builder

	h.heading(&b, "Usage:")
	if cmd.Runnable() {
		fmt.Fprintf(&b, "  %s\n", h.styles.Command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "  %s\n", h.styles.Command.Render(cmd.CommandPath()+" [command]"))
	}

	if len(cmd.Aliases) > 0 {
		b.WriteString("\n")
		h.heading(&b, "Aliases:")
		fmt.Fprintf(&b, "  %s\n", h.styles.Muted.Render(strings.Join(cmd.Aliases, ", ")))
	}

	if cmd.HasExample() {
		b.WriteString("\n")
		h.heading(&b, "Examples:")
		fmt.Fprintf(&b, "%s\n", h.styles.Muted.Render(cmd.Example))
	}

	if cmd.HasAvailableSubCommands() {
		b.WriteString("\n")
		h.heading(&b, "Commands:")
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			name := sub.Name() + strings.Repeat(" ", max(0, sub.NamePadding()-len(sub.Name())))
			fmt.Fprintf(&b, "  %s %s\n", h.styles.Name.Render(name), sub.Short)
		}
	}

	if cmd.HasAvailableLocalFlags() {
		b.WriteString("\n")
		h.heading(&b, "Flags:")
		b.WriteString(h.flags(cmd.LocalFlags()))
	}

	if cmd.HasAvailableInheritedFlags() {
		b.WriteString("\n")
		h.heading(&b, "Global Flags:")
		b.WriteString(h.flags(cmd.InheritedFlags()))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "\nUse %q for more information about a command.\n",
			cmd.CommandPath()+" [command] --help")
	}

	return b.String()
}

func (h *HelpFormatter) heading(b *strings.Builder, title string) {
	b.WriteString(h.styles.Heading.Render(title))
	b.WriteString("\n")
}

// flags styles the flag names of a pflag usage listing, keeping its layout.
func (h *HelpFormatter) flags(set *pflag.FlagSet) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(set.FlagUsages(), "\n"), "\n") {
		names, desc, found := strings.Cut(strings.TrimLeft(line, " "), "   ")
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		if !found {
			b.WriteString(line + "\n")
			continue
		}
		styled := flagNamePattern.ReplaceAllStringFunc(names, func(s string) string { return h.styles.Flag.Render(s) })
		fmt.Fprintf(&b, "%s%s   %s\n", indent, styled, desc)
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
