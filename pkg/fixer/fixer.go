// Package fixer provides the fixer interface, registry and the engine that
// runs fixers over the PHP units of a file.
package fixer

import (
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fix"
)

// Diagnostic reports one place a fixer rewrote, or would rewrite.
type Diagnostic struct {
	// RuleID is the identifier of the fixer that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the fixer.
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the file containing the issue.
	FilePath string

	// StartLine is the 1-based line number where the issue starts.
	StartLine int

	// StartColumn is the 1-based byte column where the issue starts.
	StartColumn int

	// EndLine is the 1-based line number where the issue ends.
	EndLine int

	// EndColumn is the 1-based byte column where the issue ends.
	EndColumn int

	// Suggestion is an optional human-readable fix suggestion.
	Suggestion string

	// FixEdits contains the byte edits that perform the rewrite.
	FixEdits []fix.TextEdit
}

// HasFix returns true if this diagnostic has associated fix edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// Position is a 1-based line and column span.
type Position struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// CodeSample is a before and after pair shown by `gophpfix describe`.
type CodeSample struct {
	Before string
	After  string
}

// Definition documents a fixer.
type Definition struct {
	// Summary is a one-line description.
	Summary string

	// Samples shows the fixer at work.
	Samples []CodeSample

	// RiskyDescription explains how the rewrite can change behaviour.
	// Empty for safe fixers.
	RiskyDescription string
}

// Fixer defines the interface every fixer implements.
type Fixer interface {
	// ID returns the unique identifier (e.g., "PHPUNIT001").
	ID() string

	// Name returns the human-readable name.
	Name() string

	// Description returns a detailed description of what the fixer rewrites.
	Description() string

	// DefaultEnabled returns whether the fixer is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this fixer.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags (e.g., ["phpunit"]).
	Tags() []string

	// CanFix returns whether this fixer produces edits.
	CanFix() bool

	// IsRisky reports whether the rewrite can change program behaviour.
	// Risky fixers only write files when allow_risky is set.
	IsRisky() bool

	// Definition returns documentation and samples.
	Definition() Definition

	// Apply runs the fixer on ctx.Tokens, which it may mutate, and returns a
	// diagnostic per rewrite.
	//
	// Fixers must:
	//   - Only replace or clear slots of ctx.Tokens.
	//   - Attach the edits of each rewrite with FixContext.EditsFor.
	//   - Respect context cancellation.
	//   - Return an error only for malformed input or internal failures.
	Apply(ctx *FixContext) ([]Diagnostic, error)
}
