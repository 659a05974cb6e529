package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/gophpfix/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
//   - Scalars: override wins when it is non-zero
//   - Booleans: override can only switch a flag on
//   - Rules: deep merge, override's fields winning
//   - Slices: a non-nil override replaces base entirely
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.SeverityDefault != "" {
		result.SeverityDefault = override.SeverityDefault
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.RuleFormat != "" {
		result.RuleFormat = override.RuleFormat
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// false is the zero value, so a layer cannot unset a flag set below it.
	result.AllowRisky = result.AllowRisky || override.AllowRisky
	result.Markdown = result.Markdown || override.Markdown
	result.Fix = result.Fix || override.Fix
	result.DryRun = result.DryRun || override.DryRun
	result.NoBackups = result.NoBackups || override.NoBackups

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	result.Backups.Enabled = result.Backups.Enabled || override.Backups.Enabled

	result.Rules = mergeRules(base.Rules, override.Rules)

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.EnableRules != nil {
		result.EnableRules = override.EnableRules
	}
	if override.DisableRules != nil {
		result.DisableRules = override.DisableRules
	}
	if override.FixRules != nil {
		result.FixRules = override.FixRules
	}

	return result
}

// mergeRules deep merges rule configurations into a fresh map.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	if override.AutoFix != nil {
		result.AutoFix = override.AutoFix
	}

	if override.Options != nil {
		options := make(map[string]any, len(base.Options)+len(override.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, override.Options)
		result.Options = options
	}

	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, next := range configs[1:] {
		result = merge(result, next)
	}
	return result
}
