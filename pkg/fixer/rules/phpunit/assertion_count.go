// Package phpunit holds fixers for PHPUnit test classes.
package phpunit

import (
	"fmt"

	"github.com/yaklabco/gophpfix/pkg/analyzer"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

const (
	assertionCountName = "addToAssertionCount"
	expectNoAssertions = "expectNotToPerformAssertions"
)

// Match records the two slots of one rewritten call.
type Match struct {
	// Name is the slot of the method name.
	Name int

	// Argument is the slot of the cleared literal.
	Argument int
}

// FixAssertionCount rewrites $this->addToAssertionCount(1) to
// $this->expectNotToPerformAssertions() in slots [start, end).
//
// Control blocks whose end is reached normally are skipped whole, since
// the call there runs alongside assertions that follow. Branches that
// return at their own level are scanned.
func FixAssertionCount(tokens *phptoken.Tokens, start, end int) ([]Match, error) {
	var matches []Match

	for i := start; i < end; i++ {
		if _, ok := analyzer.ControlBlockAt(tokens, i); ok {
			reach, err := analyzer.ReachableEnd(tokens, i, end)
			if err != nil {
				return nil, err
			}
			i = reach.Next() - 1
			continue
		}

		if tokens.At(i).Kind != phptoken.KindObjectOp {
			continue
		}

		match, closeParen, ok, err := matchCall(tokens, i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		name := tokens.At(match.Name)
		tokens.Set(match.Name, phptoken.New(name.Kind, expectNoAssertions))
		tokens.ClearAt(match.Argument)
		matches = append(matches, match)
		i = closeParen
	}

	return matches, nil
}

// matchCall checks the call whose object operator sits at op. It returns the
// match and the closing parenthesis of the argument list.
func matchCall(tokens *phptoken.Tokens, op int) (Match, int, bool, error) {
	receiver, ok := tokens.PrevMeaningful(op)
	if !ok || !tokens.At(receiver).EqualsFold(phptoken.New(phptoken.KindVariable, "$this")) {
		return Match{}, 0, false, nil
	}

	name, ok := tokens.NextMeaningful(op)
	if !ok || !tokens.At(name).EqualsFold(phptoken.New(phptoken.KindIdentifier, assertionCountName)) {
		return Match{}, 0, false, nil
	}

	open, ok := tokens.NextMeaningful(name)
	if !ok || !tokens.At(open).IsChar('(') {
		return Match{}, 0, false, nil
	}

	closeParen, err := tokens.MatchingBracket(open)
	if err != nil {
		return Match{}, 0, false, err
	}

	args, err := analyzer.Arguments(tokens, open, closeParen)
	if err != nil {
		return Match{}, 0, false, err
	}
	if len(args) != 1 {
		return Match{}, closeParen, false, nil
	}

	arg := args[0]
	if arg.Named() || arg.Spread(tokens) || !arg.IsSingleToken(tokens) {
		return Match{}, closeParen, false, nil
	}
	if !tokens.At(arg.Value).Equals(phptoken.New(phptoken.KindLNumber, "1")) {
		return Match{}, closeParen, false, nil
	}

	return Match{Name: name, Argument: arg.Value}, closeParen, true, nil
}

// AssertionCountFixer rewrites addToAssertionCount(1) in branches that
// return early into expectNotToPerformAssertions().
type AssertionCountFixer struct {
	fixer.BaseFixer
}

// NewAssertionCountFixer creates the fixer.
func NewAssertionCountFixer() *AssertionCountFixer {
	return &AssertionCountFixer{
		BaseFixer: fixer.NewBaseFixer(
			"PHPUNIT001",
			"php-unit-assertion-count",
			"Use PHPUnit assertion `expectNotToPerformAssertions` instead of `addToAssertionCount(1)` when applicable.",
			[]string{"phpunit"},
			true,
		),
	}
}

// Definition returns the fixer documentation.
func (f *AssertionCountFixer) Definition() fixer.Definition {
	return fixer.Definition{
		Summary: f.Description(),
		Samples: []fixer.CodeSample{{
			Before: `<?php
final class MyTest extends \PHPUnit_Framework_TestCase
{
    public function testFoo()
    {
        if (foo()) {
            $this->addToAssertionCount(1);
            return;
        }
        static::assertSame(1, bar());
    }
}
`,
			After: `<?php
final class MyTest extends \PHPUnit_Framework_TestCase
{
    public function testFoo()
    {
        if (foo()) {
            $this->expectNotToPerformAssertions();
            return;
        }
        static::assertSame(1, bar());
    }
}
`,
		}},
		RiskyDescription: "expectNotToPerformAssertions() marks the whole test, so a test that " +
			"still asserts on another path is reported as risky by PHPUnit.",
	}
}

// Apply rewrites every eligible call inside PHPUnit test classes.
func (f *AssertionCountFixer) Apply(ctx *fixer.FixContext) ([]fixer.Diagnostic, error) {
	if ctx.Tokens == nil {
		return nil, nil
	}

	regions, err := analyzer.PHPUnitClasses(ctx.Tokens)
	if err != nil {
		return nil, err
	}

	var diags []fixer.Diagnostic
	for _, region := range regions {
		if ctx.Cancelled() {
			return nil, fmt.Errorf("fixer cancelled: %w", ctx.Ctx.Err())
		}

		matches, err := FixAssertionCount(ctx.Tokens, region.Start, region.End)
		if err != nil {
			return nil, err
		}

		for _, m := range matches {
			diag := fixer.NewDiagnostic(ctx, f.ID(), m.Name, m.Argument,
				"addToAssertionCount(1) in a branch that returns early").
				WithSuggestion("Use $this->" + expectNoAssertions + "()").
				WithEdits(ctx.EditsFor(m.Name, m.Argument)...).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}
