package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fsutil"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand(opts *globalOptions) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gophpfix configuration file",
		Long: `Create a .gophpfix.yml configuration file in the working directory.

When the file already exists you are asked before it is overwritten; in
non-interactive sessions --force is required.

Examples:
  gophpfix init                      Create a minimal .gophpfix.yml
  gophpfix init --full               List every fixer with its defaults
  gophpfix init --format json        Create .gophpfix.json instead
  gophpfix init -o ci/gophpfix.yml   Write to a custom path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every fixer with its documentation")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .gophpfix.yml or .gophpfix.json)")

	return cmd
}

func runInit(cmd *cobra.Command, opts *globalOptions, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	if flags.format != "yaml" && flags.format != "json" {
		return &usageError{err: fmt.Errorf("invalid format %q: must be yaml or json", flags.format)}
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gophpfix.yml"
		if flags.format == "json" {
			outputPath = ".gophpfix.json"
		}
	}

	workDir, err := opts.workingDir()
	if err != nil {
		return err
	}
	absPath := outputPath
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(workDir, outputPath)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return &usageError{err: fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)}
		}
		overwrite, err := confirm(os.Stdin, cmd.ErrOrStderr(), fmt.Sprintf("%s already exists. Overwrite?", outputPath))
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("kept existing file", logging.FieldPath, outputPath)
			return nil
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template lists every fixer with its defaults")
	}
	logger.Info("run 'gophpfix rules' to see all available fixers")

	return nil
}

// confirm asks a yes/no question that defaults to no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N] ", question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
