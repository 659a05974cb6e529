package fixer

import "github.com/yaklabco/gophpfix/pkg/config"

// BaseFixer provides default implementations for Fixer metadata.
// Embed it in fixer implementations and override methods as needed.
type BaseFixer struct {
	id    string
	name  string
	desc  string
	tags  []string
	risky bool
}

// NewBaseFixer creates a BaseFixer with the given properties.
func NewBaseFixer(id, name, desc string, tags []string, risky bool) BaseFixer {
	return BaseFixer{
		id:    id,
		name:  name,
		desc:  desc,
		tags:  tags,
		risky: risky,
	}
}

// ID returns the unique identifier for this fixer.
func (f *BaseFixer) ID() string {
	return f.id
}

// Name returns the human-readable name of the fixer.
func (f *BaseFixer) Name() string {
	return f.name
}

// Description returns a detailed description of what the fixer rewrites.
func (f *BaseFixer) Description() string {
	return f.desc
}

// DefaultEnabled returns true.
func (f *BaseFixer) DefaultEnabled() bool {
	return true
}

// DefaultSeverity returns warning.
func (f *BaseFixer) DefaultSeverity() config.Severity {
	return config.SeverityWarning
}

// Tags returns categorization tags for this fixer.
func (f *BaseFixer) Tags() []string {
	return f.tags
}

// CanFix returns true. Every fixer produces edits.
func (f *BaseFixer) CanFix() bool {
	return true
}

// IsRisky reports whether the fixer was declared risky.
func (f *BaseFixer) IsRisky() bool {
	return f.risky
}

// Definition returns the description as the summary with no samples.
func (f *BaseFixer) Definition() Definition {
	return Definition{Summary: f.desc}
}

// Apply must be overridden by concrete fixers.
func (f *BaseFixer) Apply(_ *FixContext) ([]Diagnostic, error) {
	return nil, nil
}
