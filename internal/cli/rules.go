package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/internal/ui/pretty"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fix"
	"github.com/yaklabco/gophpfix/pkg/fixer"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

const formatJSON = "json"

// ruleInfo represents a fixer in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Risky       bool     `json:"risky"`
	Tags        []string `json:"tags,omitempty"`
}

func newRulesCommand(_ *globalOptions) *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available fixers",
		Long: `List all available fixers with their IDs, default severity, whether
they are risky, and a short description.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := fixer.DefaultRegistry

			switch flags.format {
			case formatJSON:
				return outputRulesJSON(cmd.OutOrStdout(), registry)
			case "text":
			default:
				return &usageError{err: fmt.Errorf("invalid format %q: must be text or json", flags.format)}
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{ReportTimestamp: false})
			logger.SetLevel(log.InfoLevel)

			fixers := registry.Fixers()
			if len(fixers) == 0 {
				logger.Info("no fixers registered")
				return nil
			}

			ruleFormat := config.RuleFormat(flags.ruleFormat)
			for _, f := range fixers {
				logger.Info(config.FormatRuleID(ruleFormat, f.ID(), f.Name()),
					logging.FieldSeverity, f.DefaultSeverity(),
					logging.FieldRisky, f.IsRisky(),
					logging.FieldDescription, f.Description(),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "name",
		"fixer identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func outputRulesJSON(w io.Writer, registry *fixer.Registry) error {
	fixers := registry.Fixers()
	infos := make([]ruleInfo, 0, len(fixers))
	for _, f := range fixers {
		infos = append(infos, ruleInfo{
			ID:          f.ID(),
			Name:        f.Name(),
			Aliases:     registry.Aliases(f.ID()),
			Description: f.Description(),
			Severity:    string(f.DefaultSeverity()),
			Enabled:     f.DefaultEnabled(),
			Risky:       f.IsRisky(),
			Tags:        f.Tags(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding fixers: %w", err)
	}
	return nil
}

func newDescribeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <fixer>",
		Short: "Show a fixer's documentation and code samples",
		Long: `Show what a fixer rewrites, why it may be risky, and before/after
samples. The fixer may be named by ID, name or PHP-CS-Fixer alias.

Examples:
  gophpfix describe PHPUNIT001
  gophpfix describe php_unit_assertion_count`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, ok := fixer.DefaultRegistry.Resolve(args[0])
			if !ok {
				return &usageError{err: fmt.Errorf("unknown fixer %q; run 'gophpfix rules' to list fixers", args[0])}
			}

			out := cmd.OutOrStdout()
			styles := pretty.NewStyles(pretty.IsColorEnabled(opts.color, out))
			_, err := io.WriteString(out, describe(f, fixer.DefaultRegistry.Aliases(f.ID()), styles))
			return err
		},
	}
}

// describe renders the documentation of f.
func describe(f fixer.Fixer, aliases []string, styles *pretty.Styles) string {
	def := f.Definition()

	var sb strings.Builder
	sb.WriteString(styles.Bold.Render(f.ID()+" "+f.Name()) + "\n\n")

	summary := def.Summary
	if summary == "" {
		summary = f.Description()
	}
	sb.WriteString(summary + "\n")

	if len(aliases) > 0 {
		sb.WriteString(styles.Dim.Render("Aliases: "+strings.Join(aliases, ", ")) + "\n")
	}

	if f.IsRisky() {
		sb.WriteString("\n" + styles.FormatRiskyBadge(true))
		if def.RiskyDescription != "" {
			sb.WriteString(" " + def.RiskyDescription)
		}
		sb.WriteString("\n")
	}

	for i, sample := range def.Samples {
		fmt.Fprintf(&sb, "\n%s\n", styles.SummaryTitle.Render(fmt.Sprintf("Example #%d", i+1)))

		diff := fix.GenerateDiff("", []byte(sample.Before), []byte(sample.After))
		if diff == nil {
			sb.WriteString(indent(sample.Before))
			continue
		}

		for _, hunk := range diff.Hunks {
			for _, line := range hunk.Lines {
				switch line.Kind {
				case fix.DiffLineAdd:
					sb.WriteString("   " + styles.DiffAdd.Render("+"+line.Content) + "\n")
				case fix.DiffLineRemove:
					sb.WriteString("   " + styles.DiffRemove.Render("-"+line.Content) + "\n")
				default:
					sb.WriteString("   " + styles.DiffContext.Render(" "+line.Content) + "\n")
				}
			}
		}
	}

	return sb.String()
}

func indent(code string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(strings.TrimSuffix(code, "\n"), "\n") {
		sb.WriteString("    " + strings.TrimSuffix(line, "\n") + "\n")
	}
	return sb.String()
}
