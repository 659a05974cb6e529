package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/analyzer"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

func TestArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   string
		values []string
		single []bool
	}{
		{name: "empty", code: "f()"},
		{name: "blank", code: "f( \n )"},
		{name: "comment only", code: "f(/* none */)"},
		{name: "single literal", code: "f(1)", values: []string{"1"}, single: []bool{true}},
		{name: "padded literal", code: "f( 1 )", values: []string{"1"}, single: []bool{true}},
		{name: "two", code: "f(1, 2)", values: []string{"1", "2"}, single: []bool{true, true}},
		{name: "trailing comma", code: "f(1,)", values: []string{"1"}, single: []bool{true}},
		{name: "trailing comma and space", code: "f(1, $a , \n)", values: []string{"1", "$a"}, single: []bool{true, true}},
		{
			name:   "nested call commas",
			code:   "f(g(1, 2), [3, 4], $x)",
			values: []string{"g", "[", "$x"},
			single: []bool{false, false, true},
		},
		{name: "expression", code: "f(1 + 1)", values: []string{"1"}, single: []bool{false}},
		{name: "closure", code: "f(function ($a, $b) { return [$a, $b]; })", values: []string{"function"}, single: []bool{false}},
		{name: "spread", code: "f(...$args)", values: []string{"..."}, single: []bool{false}},
		{name: "static constant", code: "f(Foo::BAR)", values: []string{"Foo"}, single: []bool{false}},
		{name: "ternary", code: "f(A ? 1 : 2)", values: []string{"A"}, single: []bool{false}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := lex(t, testCase.code)
			open := nth(t, tokens, "(", 0)
			closeParen, err := tokens.MatchingBracket(open)
			require.NoError(t, err)

			args, err := analyzer.Arguments(tokens, open, closeParen)
			require.NoError(t, err)
			require.Len(t, args, len(testCase.values))

			for i, arg := range args {
				assert.Equal(t, testCase.values[i], tokens.At(arg.Value).Text, "argument %d", i)
				assert.Equal(t, testCase.single[i], arg.IsSingleToken(tokens), "argument %d", i)
				assert.False(t, arg.Named(), "argument %d", i)
				assert.LessOrEqual(t, arg.Start, arg.Value)
				assert.LessOrEqual(t, arg.Value, arg.End)
			}
		})
	}
}

func TestArguments_Spread(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "f(1, ...$rest)")
	args, err := analyzer.Arguments(tokens, nth(t, tokens, "(", 0), nth(t, tokens, ")", 0))
	require.NoError(t, err)
	require.Len(t, args, 2)

	assert.False(t, args[0].Spread(tokens))
	assert.True(t, args[1].Spread(tokens))
}

func TestArguments_Named(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "f(count: 1, array: [2], 3)")
	args, err := analyzer.Arguments(tokens, nth(t, tokens, "(", 0), nth(t, tokens, ")", 0))
	require.NoError(t, err)
	require.Len(t, args, 3)

	assert.True(t, args[0].Named())
	assert.Equal(t, "count", tokens.At(args[0].Name).Text)
	assert.Equal(t, "1", tokens.At(args[0].Value).Text)
	assert.True(t, args[0].IsSingleToken(tokens))

	assert.True(t, args[1].Named())
	assert.Equal(t, "array", tokens.At(args[1].Name).Text)
	assert.Equal(t, "[", tokens.At(args[1].Value).Text)

	assert.False(t, args[2].Named())
	assert.Equal(t, -1, args[2].Name)
}

func TestArguments_SpansCoverSeparators(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "f( 1 ,2)")
	args, err := analyzer.Arguments(tokens, nth(t, tokens, "(", 0), nth(t, tokens, ")", 0))
	require.NoError(t, err)
	require.Len(t, args, 2)

	comma := nth(t, tokens, ",", 0)
	assert.Equal(t, nth(t, tokens, "(", 0)+1, args[0].Start)
	assert.Equal(t, comma-1, args[0].End)
	assert.Equal(t, comma+1, args[1].Start)
	assert.Equal(t, nth(t, tokens, ")", 0)-1, args[1].End)
}

func TestArguments_InvalidBounds(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "f[1]")

	var malformed *phptoken.MalformedInputError

	_, err := analyzer.Arguments(tokens, nth(t, tokens, "[", 0), nth(t, tokens, "]", 0))
	require.ErrorAs(t, err, &malformed)

	_, err = analyzer.Arguments(tokens, 3, 1)
	require.ErrorAs(t, err, &malformed)
}
