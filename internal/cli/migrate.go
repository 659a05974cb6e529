package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gophpfix/internal/configloader"
	"github.com/yaklabco/gophpfix/internal/logging"
)

type migrateFlags struct {
	force  bool
	output string
	input  string
}

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate [input]",
		Short: "Convert a PHP-CS-Fixer configuration to gophpfix format",
		Long: `Convert the rules of a PHP-CS-Fixer configuration (.php-cs-fixer.php,
.php-cs-fixer.dist.php, .php_cs, .php_cs.dist) to .gophpfix.yml.

The configuration is read, never executed: only a setRules call with a
literal array and a literal setRiskyAllowed flag are understood. Rules
without a gophpfix fixer and rule sets such as @PhpCsFixer are reported
and skipped.

Examples:
  gophpfix migrate                         Auto-detect and convert
  gophpfix migrate .php-cs-fixer.dist.php  Convert a specific file
  gophpfix migrate -o ci/gophpfix.yml      Write to a custom path`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.input = args[0]
			}
			return runMigrate(cmd, opts, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing output file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.ProjectConfigName, "output file path")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *globalOptions, flags *migrateFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	workDir, err := opts.workingDir()
	if err != nil {
		return err
	}

	inputPath := flags.input
	if inputPath == "" {
		inputPath = configloader.FindPHPCSFixerConfig(workDir)
		if inputPath == "" {
			return &usageError{err: errors.New("no PHP-CS-Fixer configuration file found")}
		}
		logger.Info("found PHP-CS-Fixer config", logging.FieldPath, inputPath)
	} else if !filepath.IsAbs(inputPath) {
		inputPath = filepath.Join(workDir, inputPath)
	}

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	outputPath := flags.output
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(workDir, outputPath)
	}

	if _, err := os.Stat(outputPath); err == nil {
		if !flags.force {
			return &usageError{err: fmt.Errorf("output file %q already exists; use --force to overwrite", flags.output)}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	result, err := configloader.ConvertPHPCSFixerConfig(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("convert configuration: %w", err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	for _, id := range result.Converted {
		logger.Debug("converted rule", logging.FieldRule, id)
	}

	header := configloader.GenerateMigrationHeader(inputPath)
	if err := configloader.WriteConfig(ctx, result.Config, outputPath, header); err != nil {
		return err
	}

	logger.Info("migration complete", logging.FieldInput, inputPath, logging.FieldOutput, flags.output)
	if len(result.Warnings) > 0 {
		logger.Warn("review the warnings above and verify the migrated configuration")
	}

	return nil
}
