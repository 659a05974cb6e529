package phptoken_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

func TestNavigator_Meaningful(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "$this /* c */ ->\n  // x\n  foo")
	arrow := indexOf(t, tokens, "->", 0)

	prev, ok := tokens.PrevMeaningful(arrow)
	require.True(t, ok)
	assert.Equal(t, "$this", tokens.At(prev).Text)

	next, ok := tokens.NextMeaningful(arrow)
	require.True(t, ok)
	assert.Equal(t, "foo", tokens.At(next).Text)

	_, ok = tokens.PrevMeaningful(prev)
	assert.False(t, ok)
	_, ok = tokens.NextMeaningful(next)
	assert.False(t, ok)
}

func TestNavigator_MatchingBracket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    string
		open    string
		openNth int
		want    string
		wantNth int
	}{
		{name: "paren", code: "f(a(b), (c))", open: "(", want: ")", wantNth: 2},
		{name: "inner paren", code: "f(a(b), (c))", open: "(", openNth: 1, want: ")", wantNth: 0},
		{name: "brace with nested parens", code: "{ if (a) { b(); } }", open: "{", want: "}", wantNth: 1},
		{name: "square ignores parens", code: "[f(), [1]]", open: "[", want: "]", wantNth: 1},
		{name: "attribute closes with square", code: "#[A([1])] x", open: "#[", want: "]", wantNth: 1},
		{name: "dollar brace", code: "${'a' . f('{')}", open: "${", want: "}", wantNth: 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := lex(t, testCase.code)
			open := indexOf(t, tokens, testCase.open, testCase.openNth)

			got, err := tokens.MatchingBracket(open)
			require.NoError(t, err)
			assert.Equal(t, indexOf(t, tokens, testCase.want, testCase.wantNth), got)
		})
	}
}

func TestNavigator_MatchingBracket_Malformed(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "f(a, (b)")
	_, err := tokens.MatchingBracket(indexOf(t, tokens, "(", 0))

	var malformed *phptoken.MalformedInputError
	require.ErrorAs(t, err, &malformed)

	_, err = tokens.MatchingBracket(0)
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Error(), "not an opening bracket")

	_, err = tokens.MatchingBracket(tokens.Len())
	require.ErrorAs(t, err, &malformed)
}

func TestNavigator_AltSyntaxColon(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "if ($a): x(); elseif ($b): y(); else: z(); endif; if ($c) { }")

	_, ok := tokens.AltSyntaxColon(indexOf(t, tokens, "if", 0))
	assert.True(t, ok)
	_, ok = tokens.AltSyntaxColon(indexOf(t, tokens, "elseif", 0))
	assert.True(t, ok)
	_, ok = tokens.AltSyntaxColon(indexOf(t, tokens, "else", 0))
	assert.True(t, ok)
	_, ok = tokens.AltSyntaxColon(indexOf(t, tokens, "if", 1))
	assert.False(t, ok)
}

func TestNavigator_MatchingKeywordEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    string
		closers []phptoken.Kind
		want    string
		wantNth int
	}{
		{
			name:    "simple endwhile",
			code:    "while ($a): x(); endwhile;",
			closers: []phptoken.Kind{phptoken.KindEndWhile},
			want:    "endwhile",
		},
		{
			name:    "nested alternative if",
			code:    "if ($a): if ($b): x(); endif; y(); endif;",
			closers: []phptoken.Kind{phptoken.KindElseIf, phptoken.KindElse, phptoken.KindEndIf},
			want:    "endif",
			wantNth: 1,
		},
		{
			name:    "else of nested alternative if is skipped",
			code:    "if ($a): if ($b): x(); else: z(); endif; else: y(); endif;",
			closers: []phptoken.Kind{phptoken.KindElseIf, phptoken.KindElse, phptoken.KindEndIf},
			want:    "else",
			wantNth: 1,
		},
		{
			name:    "else of nested brace if is skipped",
			code:    "if ($a): if ($b) { x(); } else { z(); } elseif ($c): y(); endif;",
			closers: []phptoken.Kind{phptoken.KindElseIf, phptoken.KindElse, phptoken.KindEndIf},
			want:    "elseif",
		},
		{
			name:    "nested loop kinds",
			code:    "foreach ($a as $b): for ($i = 0; $i < 1; $i++): x(); endfor; endforeach;",
			closers: []phptoken.Kind{phptoken.KindEndForeach},
			want:    "endforeach",
		},
		{
			name:    "closer inside closure body is skipped",
			code:    "while ($a): $f = function () { while (1): endwhile; }; endwhile;",
			closers: []phptoken.Kind{phptoken.KindEndWhile},
			want:    "endwhile",
			wantNth: 1,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := lex(t, testCase.code)
			colon, ok := tokens.AltSyntaxColon(0)
			require.True(t, ok)

			got, err := tokens.MatchingKeywordEnd(colon, tokens.Len(), testCase.closers...)
			require.NoError(t, err)
			assert.Equal(t, indexOf(t, tokens, testCase.want, testCase.wantNth), got)
		})
	}
}

func TestNavigator_MatchingKeywordEnd_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  string
		bound int
	}{
		{name: "missing closer", code: "while ($a): x();", bound: -1},
		{name: "bound before closer", code: "while ($a): x(); endwhile;", bound: 8},
		{name: "stray brace", code: "{ while ($a): x(); } endwhile;", bound: -1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := lex(t, testCase.code)
			bound := testCase.bound
			if bound < 0 {
				bound = tokens.Len()
			}
			colon, ok := tokens.AltSyntaxColon(indexOf(t, tokens, "while", 0))
			require.True(t, ok)

			_, err := tokens.MatchingKeywordEnd(colon, bound, phptoken.KindEndWhile)

			var malformed *phptoken.MalformedInputError
			require.ErrorAs(t, err, &malformed)
		})
	}
}
