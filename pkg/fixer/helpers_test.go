package fixer_test

import (
	"context"
	"errors"
	"strings"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/parser/php"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
	"github.com/yaklabco/gophpfix/pkg/source"
)

var errBroken = errors.New("broken fixer")

// renameFixer renames every identifier equal to from.
type renameFixer struct {
	fixer.BaseFixer
	from, to string
}

func newRenameFixer(id, from, to string, risky bool) *renameFixer {
	return &renameFixer{
		BaseFixer: fixer.NewBaseFixer(id, "rename-"+strings.ToLower(from), "Rename "+from, nil, risky),
		from:      from,
		to:        to,
	}
}

func (f *renameFixer) Apply(ctx *fixer.FixContext) ([]fixer.Diagnostic, error) {
	var diags []fixer.Diagnostic
	for i := range ctx.Tokens.Len() {
		tok := ctx.Tokens.At(i)
		if tok.Kind != phptoken.KindIdentifier || tok.Text != f.from {
			continue
		}
		ctx.Tokens.Set(i, phptoken.New(tok.Kind, f.to))
		diags = append(diags, fixer.NewDiagnostic(ctx, f.ID(), i, i, "rename "+f.from).
			WithEdits(ctx.EditsFor(i)...).
			Build())
	}
	return diags, nil
}

// brokenFixer mutates its tokens and then fails.
type brokenFixer struct {
	fixer.BaseFixer
}

func (f *brokenFixer) Apply(ctx *fixer.FixContext) ([]fixer.Diagnostic, error) {
	for i := range ctx.Tokens.Len() {
		ctx.Tokens.ClearAt(i)
	}
	return nil, errBroken
}

// fenceExtractor returns the span between the first pair of "```" markers
// as one code-mode unit.
type fenceExtractor struct{}

func (fenceExtractor) Extract(_ context.Context, file *source.File) ([]source.Unit, error) {
	content := string(file.Content)
	open := strings.Index(content, "```\n")
	if open < 0 {
		return nil, nil
	}
	start := open + len("```\n")
	end := start + strings.Index(content[start:], "```")
	return []source.Unit{{Offset: start, Content: file.Content[start:end], Code: true}}, nil
}

func newEngine(fixers ...fixer.Fixer) *fixer.Engine {
	registry := fixer.NewRegistry()
	for _, f := range fixers {
		registry.Register(f)
	}
	return fixer.NewEngine(php.New(), registry)
}

func fixConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Fix = true
	return cfg
}
