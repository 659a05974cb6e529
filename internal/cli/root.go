// Package cli provides the Cobra command structure for gophpfix.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gophpfix/internal/configloader"
	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"

	// Register built-in fixers.
	_ "github.com/yaklabco/gophpfix/pkg/fixer/rules"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	info       BuildInfo
	debug      bool
	configPath string
	color      string
	workDir    string
	isolated   bool
}

// NewRootCommand creates the root gophpfix command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &globalOptions{info: info}

	rootCmd := &cobra.Command{
		Use:   "gophpfix",
		Short: "A token-level PHP fixer for PHPUnit test suites",
		Long: `gophpfix rewrites PHP source at the token level, leaving every byte it
does not fix untouched.

It ships fixers for PHPUnit test classes, such as replacing
$this->addToAssertionCount(1) in early-return branches with
$this->expectNotToPerformAssertions(). Fixes are applied with conflict
detection, dry-run diffs, atomic writes and optional backups. PHP code
blocks inside Markdown files can be fixed too.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "path to config file")
	flags.StringVar(&opts.color, "color", "auto", "colorize output: auto, always, never")
	flags.StringVarP(&opts.workDir, "chdir", "C", "", "run as if gophpfix was started in this directory")
	flags.BoolVar(&opts.isolated, "isolated", false,
		"ignore system and user config, GOPHPFIX_* variables and PHP-CS-Fixer migration prompts")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(newFixCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newRulesCommand(opts))
	rootCmd.AddCommand(newDescribeCommand(opts))
	rootCmd.AddCommand(newInitCommand(opts))
	rootCmd.AddCommand(newMigrateCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(opts.color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}

// workingDir resolves the -C flag against the process directory.
func (o *globalOptions) workingDir() (string, error) {
	dir := o.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &usageError{err: fmt.Errorf("working directory: %w", err)}
	}
	if !info.IsDir() {
		return "", &usageError{err: fmt.Errorf("working directory %s is not a directory", dir)}
	}
	return abs, nil
}

// commandContext returns the command context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// loadConfig resolves the configuration for a command run from workDir.
func (o *globalOptions) loadConfig(
	ctx context.Context,
	workDir string,
	cliCfg *config.Config,
) (*configloader.LoadResult, error) {
	logger := logging.FromContext(ctx)

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:         workDir,
		ExplicitPath:       o.configPath,
		IgnoreSystemConfig: o.isolated,
		IgnoreUserConfig:   o.isolated,
		IgnoreEnv:          o.isolated,
		IgnorePHPCSFixer:   o.isolated,
		NonInteractive:     !isatty.IsTerminal(os.Stdin.Fd()),
		Registry:           fixer.DefaultRegistry,
		CLIConfig:          cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, result.LoadedFrom)
	}

	return result, nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
