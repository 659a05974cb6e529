package phpunit_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/fixer/rules/phpunit"
	"github.com/yaklabco/gophpfix/pkg/parser/php"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// wrapTest places body inside a test method of a PHPUnit test class.
func wrapTest(body string) string {
	return "<?php\nfinal class FooTest extends TestCase\n{\n    public function testFoo(): void\n    {\n" +
		body + "\n    }\n}\n"
}

// applyFixer runs the fixer over code and returns the rewritten source and
// the diagnostics.
func applyFixer(t *testing.T, code string) (string, []fixer.Diagnostic) {
	t.Helper()

	file := source.NewFile("FooTest.php", []byte(code))
	tokens := phptoken.NewTokens(php.Lex(file.Content, false))
	fc := fixer.NewFixContext(context.Background(), file, source.WholeFile(file), tokens, config.NewConfig(), nil)

	diags, err := phpunit.NewAssertionCountFixer().Apply(fc)
	require.NoError(t, err)
	return tokens.String(), diags
}

func TestAssertionCountFixer_Golden(t *testing.T) {
	t.Parallel()

	inputs, err := filepath.Glob(filepath.Join("testdata", "*.input.php"))
	require.NoError(t, err)
	require.NotEmpty(t, inputs)

	for _, input := range inputs {
		name := strings.TrimSuffix(filepath.Base(input), ".input.php")

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			original, err := os.ReadFile(input)
			require.NoError(t, err)

			want := original
			fixedPath := filepath.Join("testdata", name+".fixed.php")
			if fixed, err := os.ReadFile(fixedPath); err == nil {
				want = fixed
			}

			got, diags := applyFixer(t, string(original))
			assert.Equal(t, string(want), got)
			assert.Equal(t, string(want) != string(original), len(diags) > 0)

			again, diags := applyFixer(t, got)
			assert.Equal(t, got, again, "fixing twice must be a no-op")
			assert.Empty(t, diags)
		})
	}
}

func TestAssertionCountFixer_Cases(t *testing.T) {
	t.Parallel()

	const call = "$this->addToAssertionCount(1);"

	tests := []struct {
		name  string
		body  string
		fixes int
	}{
		{
			name:  "top level call",
			body:  call,
			fixes: 1,
		},
		{
			name:  "else branch that returns",
			body:  "if ($a) { foo(); } else { " + call + " return; }",
			fixes: 1,
		},
		{
			name:  "else if branch that returns",
			body:  "if ($a) { foo(); } else if ($b) { " + call + " return; }",
			fixes: 1,
		},
		{
			name:  "else if statement body that returns",
			body:  "if ($a) foo(); else if ($b) { " + call + " return; } else { bar(); }",
			fixes: 1,
		},
		{
			name:  "braces inside string interpolation",
			body:  `$s = "{$m["{"]}"; if ($a) { ` + call + ` return; }`,
			fixes: 1,
		},
		{
			name: "else if branch without return",
			body: "if ($a) { return; } else if ($b) { " + call + " }",
		},
		{
			name: "elseif branch without return",
			body: "if ($a) { return; } elseif ($b) { " + call + " }",
		},
		{
			name: "nested block that falls through",
			body: "if ($a) { if ($b) { " + call + " } return; }",
		},
		{
			name: "return only inside nested block",
			body: "if ($a) { if ($b) { return; } " + call + " }",
		},
		{
			name: "return inside closure does not count",
			body: "if ($a) { $f = function () { return 1; }; " + call + " }",
		},
		{
			name: "foreach loop",
			body: "foreach ($items as $item) { " + call + " return; }",
		},
		{
			name: "do while loop",
			body: "do { " + call + " return; } while ($a);",
		},
		{
			name: "switch",
			body: "switch ($a) { case 1: " + call + " return; }",
		},
		{
			name:  "case insensitive names",
			body:  "if ($a) { $THIS->ADDTOASSERTIONCOUNT(1); return; }",
			fixes: 1,
		},
		{
			name:  "whitespace and comments around the argument",
			body:  "if ($a) { $this -> addToAssertionCount( /* one */ 1 ); return; }",
			fixes: 1,
		},
		{
			name: "named argument",
			body: "if ($a) { $this->addToAssertionCount(count: 1); return; }",
		},
		{
			name: "spread argument",
			body: "if ($a) { $this->addToAssertionCount(...$one); return; }",
		},
		{
			name: "expression argument",
			body: "if ($a) { $this->addToAssertionCount(1 + 0); return; }",
		},
		{
			name: "float argument",
			body: "if ($a) { $this->addToAssertionCount(1.0); return; }",
		},
		{
			name: "nullsafe operator",
			body: "if ($a) { $this?->addToAssertionCount(1); return; }",
		},
		{
			name: "other method",
			body: "if ($a) { $this->addToAssertionCounts(1); return; }",
		},
		{
			name: "statement body without return",
			body: "if ($a) " + call,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			code := wrapTest(testCase.body)
			got, diags := applyFixer(t, code)

			assert.Len(t, diags, testCase.fixes)
			if testCase.fixes == 0 {
				assert.Equal(t, code, got)
				return
			}
			assert.NotContains(t, got, "addToAssertionCount", "all calls rewritten")
			assert.Contains(t, got, "->expectNotToPerformAssertions(")
		})
	}
}

func TestAssertionCountFixer_OnlyTestClasses(t *testing.T) {
	t.Parallel()

	code := "<?php\nclass Helper\n{\n    public function run()\n    {\n" +
		"        if ($a) { $this->addToAssertionCount(1); return; }\n    }\n}\n"

	got, diags := applyFixer(t, code)
	assert.Equal(t, code, got)
	assert.Empty(t, diags)
}

func TestAssertionCountFixer_Diagnostic(t *testing.T) {
	t.Parallel()

	code := wrapTest("        if ($a) {\n            $this->addToAssertionCount(1);\n            return;\n        }")
	_, diags := applyFixer(t, code)
	require.Len(t, diags, 1)

	diag := diags[0]
	assert.Equal(t, "PHPUNIT001", diag.RuleID)
	assert.Equal(t, "FooTest.php", diag.FilePath)
	assert.Equal(t, 7, diag.StartLine)
	assert.Equal(t, 20, diag.StartColumn)
	require.Len(t, diag.FixEdits, 2)
	assert.Equal(t, "expectNotToPerformAssertions", diag.FixEdits[0].NewText)
	assert.Equal(t, "1", code[diag.FixEdits[1].StartOffset:diag.FixEdits[1].EndOffset])
	assert.True(t, diag.FixEdits[1].IsDeletion())
}

func TestFixAssertionCount_Locality(t *testing.T) {
	t.Parallel()

	code := wrapTest("if ($a) { $this->addToAssertionCount(1); return; }")
	tokens := phptoken.NewTokens(php.Lex([]byte(code), false))

	matches, err := phpunit.FixAssertionCount(tokens, 0, tokens.Len())
	require.NoError(t, err)
	require.Len(t, matches, 1)

	changes := tokens.Changes()
	require.Len(t, changes, 2)
	assert.Equal(t, matches[0].Name, changes[0].Index)
	assert.Equal(t, matches[0].Argument, changes[1].Index)
	assert.Equal(t, phptoken.KindIdentifier, tokens.At(matches[0].Name).Kind)
	assert.True(t, tokens.At(matches[0].Argument).IsEmpty())
}

func TestFixAssertionCount_Malformed(t *testing.T) {
	t.Parallel()

	tokens := phptoken.NewTokens(php.Lex([]byte("if ($a) { $this->addToAssertionCount(1); return;"), true))

	_, err := phpunit.FixAssertionCount(tokens, 0, tokens.Len())

	var malformed *phptoken.MalformedInputError
	require.ErrorAs(t, err, &malformed)
}

func TestAssertionCountFixer_Metadata(t *testing.T) {
	t.Parallel()

	f := phpunit.NewAssertionCountFixer()
	assert.Equal(t, "PHPUNIT001", f.ID())
	assert.Equal(t, "php-unit-assertion-count", f.Name())
	assert.True(t, f.IsRisky())
	assert.True(t, f.CanFix())

	def := f.Definition()
	require.Len(t, def.Samples, 1)
	assert.Contains(t, def.Samples[0].Before, "addToAssertionCount(1)")
	assert.Contains(t, def.Samples[0].After, "expectNotToPerformAssertions()")
	assert.NotEmpty(t, def.RiskyDescription)
}
