package fixer

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fix"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// FileResult contains the results of running the fixers over one file.
type FileResult struct {
	// File is the file as it was read.
	File *source.File

	// Units is the number of PHP units found in the file.
	Units int

	// Diagnostics contains one entry per rewrite site.
	Diagnostics []Diagnostic

	// Edits contains validated, sorted edits for auto-fix.
	// Empty if no fixes are available or --fix was not requested.
	Edits []fix.TextEdit

	// SkippedEdits contains edits dropped because they overlapped an
	// earlier one.
	SkippedEdits []fix.TextEdit

	// EditConflicts is true if any edits were skipped due to conflicts.
	EditConflicts bool

	// RuleErrors contains errors from fixer execution, keyed by fixer ID.
	// A failing fixer contributes nothing for the unit it failed on.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any fixes are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with fixes.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			count++
		}
	}
	return count
}

// Engine tokenizes files and runs fixers over them.
type Engine struct {
	// Tokenizer splits PHP units into tokens.
	Tokenizer Tokenizer

	// Extractor finds PHP units in Markdown files. When nil, Markdown files
	// have no units.
	Extractor Extractor

	// Registry holds all available fixers.
	Registry *Registry
}

// NewEngine creates a new Engine with the given tokenizer and registry.
func NewEngine(tokenizer Tokenizer, registry *Registry) *Engine {
	return &Engine{
		Tokenizer: tokenizer,
		Registry:  registry,
	}
}

// Units returns the PHP units of file.
func (e *Engine) Units(ctx context.Context, file *source.File) ([]source.Unit, error) {
	if !file.IsMarkdown() {
		return []source.Unit{source.WholeFile(file)}, nil
	}
	if e.Extractor == nil {
		return nil, nil
	}
	units, err := e.Extractor.Extract(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("extract units: %w", err)
	}
	return units, nil
}

// FixFile runs every resolved fixer over every PHP unit of a file.
//
// Each fixer works on its own copy of a unit's tokens, so an error from one
// fixer discards only that fixer's rewrites for that unit.
func (e *Engine) FixFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	file := source.NewFile(path, content)

	units, err := e.Units(ctx, file)
	if err != nil {
		return nil, err
	}

	resolved := ResolveFixers(e.Registry, cfg)

	result := &FileResult{
		File:       file,
		Units:      len(units),
		RuleErrors: make(map[string]error),
	}

	var allEdits []fix.TextEdit

	for _, unit := range units {
		tokens, err := e.Tokenizer.Tokenize(ctx, unit)
		if err != nil {
			return nil, fmt.Errorf("tokenize at offset %d: %w", unit.Offset, err)
		}

		for _, rf := range resolved {
			select {
			case <-ctx.Done():
				return result, fmt.Errorf("fixing cancelled: %w", ctx.Err())
			default:
			}

			fixCtx := NewFixContext(ctx, file, unit, tokens.Clone(), cfg, rf.Config)

			diags, err := rf.Fixer.Apply(fixCtx)
			if err != nil {
				logging.FromContext(ctx).Debug("fixer failed",
					logging.FieldPath, path,
					logging.FieldRule, rf.Fixer.ID(),
					logging.FieldError, err)
				result.RuleErrors[rf.Fixer.ID()] = errors.Join(result.RuleErrors[rf.Fixer.ID()], err)
				continue
			}

			for i := range diags {
				diags[i].Severity = rf.Severity
				if diags[i].FilePath == "" {
					diags[i].FilePath = path
				}
				if diags[i].RuleName == "" {
					diags[i].RuleName = rf.Fixer.Name()
				}
				if rf.AutoFix {
					allEdits = append(allEdits, diags[i].FixEdits...)
				}
			}

			result.Diagnostics = append(result.Diagnostics, diags...)
		}
	}

	if len(allEdits) > 0 {
		accepted, skipped, _, err := fix.PrepareEditsFiltered(allEdits, len(content))
		if err != nil {
			result.EditConflicts = true
		} else {
			result.Edits = accepted
			result.SkippedEdits = skipped
			result.EditConflicts = len(skipped) > 0
		}
	}

	return result, nil
}
