package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/parser/goldmark"
	"github.com/yaklabco/gophpfix/pkg/parser/php"
	"github.com/yaklabco/gophpfix/pkg/reporter"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

type fixFlags struct {
	dryRun     bool
	allowRisky bool
	markdown   bool
	noBackups  bool
	noContext  bool
	compact    bool
	jobs       int
	format     string
	ruleFormat string
	extensions []string
	ignore     []string
	enable     []string
	disable    []string
	fixRules   []string
}

func newFixCommand(opts *globalOptions) *cobra.Command {
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Fix PHP files in place",
		Long: `Fix PHP files in place.

By default, fixes every .php, .phpt and .inc file under the current
directory. Hidden directories are skipped. Named files are always
processed, whatever their extension.

Risky fixers can change what a program does. Their fixes are reported but
only written with --allow-risky or allow_risky: true in the config.

Examples:
  gophpfix fix                          # Fix the current directory
  gophpfix fix tests/                   # Fix one directory
  gophpfix fix --allow-risky            # Also apply risky fixers
  gophpfix fix --dry-run                # Show a diff without writing
  gophpfix fix --markdown docs/         # Fix PHP code blocks in Markdown
  gophpfix fix --format sarif > out.sarif`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts, flags, false)
		},
	}

	addFixFlags(cmd, flags, true)
	return cmd
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report what fix would change without writing",
		Long: `Report what fix would change without writing any file.

check is fix --dry-run with a CI friendly exit status: it exits 1 when any
fixer would rewrite code.

Examples:
  gophpfix check                        # Check the current directory
  gophpfix check --format diff          # Print the patch fix would apply
  gophpfix check --format json src/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.dryRun = true
			return runFix(cmd, args, opts, flags, true)
		},
	}

	addFixFlags(cmd, flags, false)
	return cmd
}

func addFixFlags(cmd *cobra.Command, flags *fixFlags, writes bool) {
	f := cmd.Flags()

	if writes {
		f.BoolVar(&flags.dryRun, "dry-run", false, "show fixes as a diff without writing files")
		f.BoolVar(&flags.noBackups, "no-backups", false, "disable backup creation when fixing")
	}
	f.BoolVar(&flags.allowRisky, "allow-risky", false, "apply fixers that may change behaviour")
	f.BoolVar(&flags.markdown, "markdown", false, "also fix PHP code blocks in Markdown files")
	f.StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff, summary")
	f.StringVar(&flags.ruleFormat, "rule-format", "name", "fixer identifier format in output: name, id, or combined")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	f.StringSliceVar(&flags.extensions, "extensions", nil, "file extensions treated as PHP (default .php,.phpt,.inc)")
	f.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	f.StringSliceVar(&flags.enable, "enable", nil, "fixer IDs or names to enable")
	f.StringSliceVar(&flags.disable, "disable", nil, "fixer IDs or names to disable")
	f.StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit fixing to these fixer IDs or names")
	f.BoolVar(&flags.noContext, "no-context", false, "hide source line context in text output")
	f.BoolVar(&flags.compact, "compact", false, "compact JSON and SARIF output")
}

// cliConfig maps explicitly set flags onto a config layer.
func (flags *fixFlags) cliConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{
		Fix:          true,
		DryRun:       flags.dryRun,
		AllowRisky:   flags.allowRisky,
		Markdown:     flags.markdown,
		NoBackups:    flags.noBackups,
		Jobs:         flags.jobs,
		Ignore:       flags.ignore,
	}

	var err error
	if cfg.EnableRules, err = resolveRuleKeys(flags.enable); err != nil {
		return nil, err
	}
	if cfg.DisableRules, err = resolveRuleKeys(flags.disable); err != nil {
		return nil, err
	}
	if cfg.FixRules, err = resolveRuleKeys(flags.fixRules); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return nil, &usageError{err: err}
		}
		cfg.Format = config.OutputFormat(format)
	}
	if changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	if changed("extensions") {
		cfg.Extensions = flags.extensions
	}

	return cfg, nil
}

// resolveRuleKeys maps fixer IDs, names and aliases to IDs.
func resolveRuleKeys(keys []string) ([]string, error) {
	if keys == nil {
		return nil, nil
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		id, _, ok := fixer.DefaultRegistry.Resolve(key)
		if !ok {
			return nil, &usageError{err: fmt.Errorf("unknown fixer %q; run 'gophpfix rules' to list fixers", key)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runFix(cmd *cobra.Command, args []string, opts *globalOptions, flags *fixFlags, check bool) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := opts.workingDir()
	if err != nil {
		return err
	}

	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return err
	}

	loaded, err := opts.loadConfig(ctx, workDir, cliCfg)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	// A diff needs the fixed content without touching the files.
	if cfg.Format == config.FormatDiff {
		cfg.DryRun = true
	}

	engine := fixer.NewEngine(php.New(), fixer.DefaultRegistry)
	engine.Extractor = goldmark.New()

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting fix run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, workDir,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldAllowRisky, cfg.AllowRisky,
	)

	result, err := runner.New(fixer.NewPipeline(engine)).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("fix run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      reporter.Format(cfg.Format),
		Color:       opts.color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		RuleFormat:  cfg.RuleFormat,
		WorkingDir:  workDir,
		ToolVersion: opts.info.Version,
	})
	if err != nil {
		return &usageError{err: fmt.Errorf("create reporter: %w", err)}
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, check)
}
