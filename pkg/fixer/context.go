package fixer

import (
	"context"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fix"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// FixContext is handed to a fixer for one unit of one file.
//
// It carries context.Context as a field because it is a short-lived
// parameter object created per fixer invocation.
type FixContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the file being fixed.
	File *source.File

	// Unit is the span of File that Tokens was built from.
	Unit source.Unit

	// Tokens is a private copy of the unit's tokens. Fixers mutate it.
	Tokens *phptoken.Tokens

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the fixer-specific configuration (may be nil).
	RuleConfig *config.RuleConfig
}

// NewFixContext creates a FixContext for one unit.
func NewFixContext(
	ctx context.Context,
	file *source.File,
	unit source.Unit,
	tokens *phptoken.Tokens,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *FixContext {
	return &FixContext{
		Ctx:        ctx,
		File:       file,
		Unit:       unit,
		Tokens:     tokens,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
}

// Cancelled returns true if the context has been cancelled.
func (fc *FixContext) Cancelled() bool {
	select {
	case <-fc.Ctx.Done():
		return true
	default:
		return false
	}
}

// FileOffset converts the original offset of slot i to a file byte offset.
func (fc *FixContext) FileOffset(i int) int {
	return fc.Unit.Offset + fc.Tokens.Offset(i)
}

// Span returns the file position covering the original text of slots
// first through last.
func (fc *FixContext) Span(first, last int) Position {
	start := fc.FileOffset(first)
	end := fc.Tokens.Edit(last).EndOffset + fc.Unit.Offset

	var pos Position
	if fc.File == nil {
		return pos
	}
	pos.StartLine, pos.StartColumn = fc.File.LineAt(start)
	pos.EndLine, pos.EndColumn = fc.File.LineAt(end)
	return pos
}

// EditsFor returns the file edits of the given slots. Unchanged slots are
// skipped.
func (fc *FixContext) EditsFor(slots ...int) []fix.TextEdit {
	builder := fix.NewEditBuilder()
	for _, i := range slots {
		if fc.Tokens.Changed(i) {
			builder.AddChange(fc.Unit.Offset, fc.Tokens.Edit(i))
		}
	}
	return builder.Edits
}

// Option returns a fixer-specific option value, or the default if not set.
func (fc *FixContext) Option(key string, defaultValue any) any {
	if fc.RuleConfig == nil || fc.RuleConfig.Options == nil {
		return defaultValue
	}
	if v, ok := fc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// OptionBool returns a fixer-specific boolean option, or the default.
func (fc *FixContext) OptionBool(key string, defaultValue bool) bool {
	if b, ok := fc.Option(key, defaultValue).(bool); ok {
		return b
	}
	return defaultValue
}

// OptionString returns a fixer-specific string option, or the default.
func (fc *FixContext) OptionString(key string, defaultValue string) string {
	if s, ok := fc.Option(key, defaultValue).(string); ok {
		return s
	}
	return defaultValue
}
