// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, validation, and PHP-CS-Fixer migration.
package configloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/fsutil"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// IgnorePHPCSFixer skips PHP-CS-Fixer config detection and migration.
	IgnorePHPCSFixer bool

	// NonInteractive disables interactive prompts (e.g., in CI).
	NonInteractive bool

	// Prompt reads the migration answer. Defaults to stdin and stdout.
	Prompt io.ReadWriter

	// Registry resolves fixer keys. Defaults to fixer.DefaultRegistry.
	Registry *fixer.Registry

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string

	// MigrationPerformed is true if a PHP-CS-Fixer config was converted.
	MigrationPerformed bool
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (GOPHPFIX_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.gophpfix.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/gophpfix/config.yaml)
//  6. System config (/etc/gophpfix/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	registry := opts.Registry
	if registry == nil {
		registry = fixer.DefaultRegistry
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}

	if !opts.IgnorePHPCSFixer && !opts.IgnoreProjectConfig && opts.ExplicitPath == "" {
		migrated, err := handlePHPCSFixerMigration(ctx, result, opts, registry, workDir)
		if err != nil {
			return nil, err
		}
		if migrated {
			paths, err = DiscoverPaths(ctx, workDir)
			if err != nil {
				return nil, fmt.Errorf("discover paths after migration: %w", err)
			}
			result.Paths = paths
		}
	}

	cfg := config.NewConfig()

	layers := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", opts.ExplicitPath, false},
	}

	for _, layer := range layers {
		if layer.ignore || layer.path == "" {
			continue
		}
		layerCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, layerCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		logger.Debug("loaded config", logging.FieldSource, layer.name, logging.FieldPath, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	normalizeRuleKeys(cfg, registry, result)

	validation := validateWith(cfg, registry)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	logger.Debug("configuration resolved",
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldAllowRisky, cfg.AllowRisky,
		logging.FieldJobs, cfg.Jobs,
	)

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file. Decoding is strict:
// unknown keys fail with the offending line.
func loadConfigFile(path string) (*config.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	cfg, err := config.Decode(file)
	if err != nil {
		return nil, &ValidationError{FilePath: path, Message: err.Error()}
	}

	return cfg, nil
}

// handlePHPCSFixerMigration offers to convert a PHP-CS-Fixer config when the
// project has no gophpfix config of its own.
func handlePHPCSFixerMigration(
	ctx context.Context,
	result *LoadResult,
	opts LoadOptions,
	registry *fixer.Registry,
	workDir string,
) (bool, error) {
	paths := result.Paths

	if paths.Project != "" || paths.PHPCSFixer == "" {
		return false, nil
	}

	prompt := opts.Prompt
	if prompt == nil {
		if opts.NonInteractive || !isInteractive() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("found %s but no %s; run 'gophpfix migrate' to convert", paths.PHPCSFixer, ProjectConfigName))
			return false, nil
		}
		prompt = stdio{}
	}

	shouldMigrate, err := promptMigration(prompt, paths.PHPCSFixer)
	if err != nil {
		return false, err
	}
	if !shouldMigrate {
		return false, nil
	}

	migration, err := convertFile(ctx, paths.PHPCSFixer, registry)
	if err != nil {
		return false, fmt.Errorf("convert PHP-CS-Fixer config: %w", err)
	}
	result.Warnings = append(result.Warnings, migration.Warnings...)

	outputPath := filepath.Join(workDir, ProjectConfigName)
	if err := WriteConfig(ctx, migration.Config, outputPath, GenerateMigrationHeader(paths.PHPCSFixer)); err != nil {
		return false, fmt.Errorf("write migrated config: %w", err)
	}

	result.MigrationPerformed = true
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("migrated %s to %s", paths.PHPCSFixer, outputPath))

	return true, nil
}

// promptMigration asks whether to migrate; an empty answer means yes.
func promptMigration(rw io.ReadWriter, sourcePath string) (bool, error) {
	if _, err := fmt.Fprintf(rw, "Found %s but no %s\nConvert to gophpfix format? [Y/n] ",
		sourcePath, ProjectConfigName); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(rw).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "" || response == "y" || response == "yes", nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// isInteractive returns true if stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// WriteConfig writes cfg as YAML with header to path atomically.
func WriteConfig(ctx context.Context, cfg *config.Config, path, header string) error {
	content, err := cfg.ToYAMLWithHeader(header)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, path, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// normalizeRuleKeys rewrites fixer names and aliases to canonical IDs. When
// two keys resolve to the same fixer the later key in sorted order wins.
func normalizeRuleKeys(cfg *config.Config, registry *fixer.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seenIDs := make(map[string]string)

	for _, key := range sortedRuleKeys(cfg.Rules) {
		ruleCfg := cfg.Rules[key]

		canonicalID, _, found := registry.Resolve(key)
		if !found {
			normalized[key] = ruleCfg
			continue
		}

		if originalKey, exists := seenIDs[canonicalID]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using %q",
					originalKey, key, canonicalID, key))
			ruleCfg = mergeRuleConfig(normalized[canonicalID], ruleCfg)
		}

		seenIDs[canonicalID] = key
		normalized[canonicalID] = ruleCfg
	}

	cfg.Rules = normalized
}
