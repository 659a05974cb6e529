// Package config defines core configuration types for gophpfix.
// These types are pure data structures with no dependency on how they are loaded.
package config

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-fixer configuration options.
type RuleConfig struct {
	Enabled  *bool          `mapstructure:"enabled" yaml:"enabled"`
	Severity *string        `mapstructure:"severity" yaml:"severity"`
	AutoFix  *bool          `mapstructure:"auto_fix" yaml:"auto_fix"`
	Options  map[string]any `mapstructure:"options" yaml:"options"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar"
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// RuleFormat controls how fixer identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "php-unit-assertion-count"
	RuleFormatID       RuleFormat = "id"       // "PHPUNIT001"
	RuleFormatCombined RuleFormat = "combined" // "PHPUNIT001/php-unit-assertion-count"
)

// DefaultExtensions lists the file extensions treated as PHP source.
//
//nolint:gochecknoglobals // Immutable default list.
var DefaultExtensions = []string{".php", ".phpt", ".inc"}

// Config is the root configuration structure for gophpfix.
type Config struct {
	// SeverityDefault is the default severity for fixers that don't specify one.
	SeverityDefault string `mapstructure:"severity_default" yaml:"severity_default"`

	// AllowRisky lets fixers that may change behavior apply their edits.
	AllowRisky bool `mapstructure:"allow_risky" yaml:"allow_risky"`

	// Markdown also fixes PHP code blocks inside Markdown files.
	Markdown bool `mapstructure:"markdown" yaml:"markdown"`

	// Extensions lists file extensions treated as PHP source.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Rules contains per-fixer configuration keyed by fixer ID.
	Rules map[string]RuleConfig `mapstructure:"rules" yaml:"rules"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix writes fixes to disk instead of only reporting them.
	Fix bool `mapstructure:"-" yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// RuleFormat controls how fixer identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// EnableRules contains fixer IDs to explicitly enable.
	EnableRules []string `mapstructure:"-" yaml:"-"`

	// DisableRules contains fixer IDs to explicitly disable.
	DisableRules []string `mapstructure:"-" yaml:"-"`

	// FixRules limits fixing to specific fixer IDs.
	FixRules []string `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	extensions := make([]string, len(DefaultExtensions))
	copy(extensions, DefaultExtensions)

	return &Config{
		SeverityDefault: string(SeverityWarning),
		Extensions:      extensions,
		Rules:           make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}
