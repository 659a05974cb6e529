// Package analyzer recognizes PHP constructs over a phptoken sequence:
// call argument lists, control-flow blocks and their bodies, and PHPUnit
// test class regions. It never mutates the sequence.
package analyzer

import (
	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

// Argument is one top-level argument of a call.
type Argument struct {
	// Start is the first slot of the argument, right after "(" or ",".
	Start int

	// End is the last slot of the argument, right before "," or ")".
	End int

	// Value is the first meaningful slot of the argument's value. For named
	// arguments it is the slot after the colon; for spread arguments it is
	// the "..." token.
	Value int

	// Name is the slot of the parameter name for named arguments, or -1.
	Name int
}

// Named reports whether the argument uses "name: value" syntax.
func (a Argument) Named() bool {
	return a.Name >= 0
}

// Spread reports whether the argument unpacks with "...".
func (a Argument) Spread(tokens *phptoken.Tokens) bool {
	return tokens.At(a.Value).Kind == phptoken.KindEllipsis
}

// Meaningful counts the meaningful tokens of the value, nested groups included.
func (a Argument) Meaningful(tokens *phptoken.Tokens) int {
	count := 0
	for i := a.Value; i <= a.End; i++ {
		if !tokens.At(i).IsTrivia() {
			count++
		}
	}
	return count
}

// IsSingleToken reports whether the value is exactly one meaningful token.
func (a Argument) IsSingleToken(tokens *phptoken.Tokens) bool {
	return a.Meaningful(tokens) == 1
}

// Arguments splits the call parentheses at open and closeParen into
// top-level arguments. Commas inside nested brackets do not separate. Empty
// parentheses yield no arguments and a trailing comma adds none.
func Arguments(tokens *phptoken.Tokens, open, closeParen int) ([]Argument, error) {
	if open < 0 || closeParen >= tokens.Len() || open >= closeParen {
		return nil, &phptoken.MalformedInputError{Index: open, Bound: closeParen, Reason: "invalid argument list bounds"}
	}
	if !tokens.At(open).IsChar('(') || !tokens.At(closeParen).IsChar(')') {
		return nil, &phptoken.MalformedInputError{Index: open, Bound: closeParen, Reason: "argument list is not parenthesized"}
	}

	var args []Argument
	start := open + 1

	for i := open + 1; i < closeParen; i++ {
		switch {
		case tokens.IsOpenBracket(i):
			end, err := tokens.MatchingBracket(i)
			if err != nil {
				return nil, err
			}
			if end >= closeParen {
				return nil, &phptoken.MalformedInputError{Index: i, Bound: closeParen, Reason: "nested group crosses argument list"}
			}
			i = end
		case tokens.At(i).IsChar(','):
			if arg, ok := newArgument(tokens, start, i-1); ok {
				args = append(args, arg)
			}
			start = i + 1
		}
	}

	if arg, ok := newArgument(tokens, start, closeParen-1); ok {
		args = append(args, arg)
	}

	return args, nil
}

// newArgument builds the argument spanning [start, end]. It reports false
// when the span holds no meaningful token.
func newArgument(tokens *phptoken.Tokens, start, end int) (Argument, bool) {
	value := -1
	for i := start; i <= end; i++ {
		if !tokens.At(i).IsTrivia() {
			value = i
			break
		}
	}
	if value < 0 {
		return Argument{}, false
	}

	arg := Argument{Start: start, End: end, Value: value, Name: -1}

	if isNameToken(tokens.At(value)) {
		colon, ok := tokens.NextMeaningful(value)
		if ok && colon <= end && tokens.At(colon).IsChar(':') {
			if valueIdx, hasValue := tokens.NextMeaningful(colon); hasValue && valueIdx <= end {
				arg.Name = value
				arg.Value = valueIdx
			}
		}
	}

	return arg, true
}

// isNameToken reports whether tok can name a parameter. Reserved words are
// valid parameter names.
func isNameToken(tok phptoken.Token) bool {
	if tok.Kind == phptoken.KindIdentifier {
		return true
	}
	_, reserved := phptoken.KeywordKind(tok.Text)
	return reserved
}
