package fixer

import (
	"slices"

	"github.com/yaklabco/gophpfix/pkg/config"
)

// ResolvedFixer pairs a Fixer with its resolved configuration.
type ResolvedFixer struct {
	// Fixer is the underlying implementation.
	Fixer Fixer

	// Enabled indicates whether the fixer should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this fixer.
	Severity config.Severity

	// AutoFix indicates whether the fixer's edits are applied.
	AutoFix bool

	// Config is the fixer-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveFixers determines which fixers to run based on registry and config.
// Only enabled fixers are returned.
func ResolveFixers(registry *Registry, cfg *config.Config) []ResolvedFixer {
	var resolved []ResolvedFixer

	for _, f := range registry.Fixers() {
		rf := resolveFixer(f, cfg)
		if rf.Enabled {
			resolved = append(resolved, rf)
		}
	}

	return resolved
}

func resolveFixer(f Fixer, cfg *config.Config) ResolvedFixer {
	rf := ResolvedFixer{
		Fixer:    f,
		Enabled:  f.DefaultEnabled(),
		Severity: f.DefaultSeverity(),
		AutoFix:  f.CanFix(),
	}

	if cfg == nil {
		return rf
	}

	if cfg.SeverityDefault != "" {
		if sev := config.Severity(cfg.SeverityDefault); sev.IsValid() {
			rf.Severity = sev
		}
	}

	if slices.Contains(cfg.EnableRules, f.ID()) {
		rf.Enabled = true
	}
	if slices.Contains(cfg.DisableRules, f.ID()) {
		rf.Enabled = false
	}

	if ruleCfg, ok := cfg.Rules[f.ID()]; ok {
		rf.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rf.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rf.Severity = config.Severity(*ruleCfg.Severity)
		}
		if ruleCfg.AutoFix != nil {
			rf.AutoFix = *ruleCfg.AutoFix && f.CanFix()
		}
	}

	if len(cfg.FixRules) > 0 {
		rf.AutoFix = f.CanFix() && slices.Contains(cfg.FixRules, f.ID())
	}

	if f.IsRisky() && !cfg.AllowRisky {
		rf.AutoFix = false
	}

	if !cfg.Fix {
		rf.AutoFix = false
	}

	return rf
}
