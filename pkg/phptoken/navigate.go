package phptoken

// bracketFamily groups openers with the closer that balances them.
type bracketFamily uint8

const (
	familyNone bracketFamily = iota
	familyParen
	familySquare
	familyBrace
)

//nolint:gochecknoglobals // Immutable table of alternative-syntax openers.
var altClosers = map[Kind]Kind{
	KindIf:      KindEndIf,
	KindWhile:   KindEndWhile,
	KindFor:     KindEndFor,
	KindForeach: KindEndForeach,
	KindSwitch:  KindEndSwitch,
}

func openerFamily(tok Token) bracketFamily {
	switch {
	case tok.IsChar('('):
		return familyParen
	case tok.IsChar('['), tok.Kind == KindAttributeOpen:
		return familySquare
	case tok.IsChar('{'), tok.Kind == KindCurlyOpen:
		return familyBrace
	default:
		return familyNone
	}
}

func closerFamily(tok Token) bracketFamily {
	switch {
	case tok.IsChar(')'):
		return familyParen
	case tok.IsChar(']'):
		return familySquare
	case tok.IsChar('}'):
		return familyBrace
	default:
		return familyNone
	}
}

// IsOpenBracket reports whether slot i opens a (), [] or {} group.
func (s *Tokens) IsOpenBracket(i int) bool {
	return openerFamily(s.tokens[i]) != familyNone
}

// IsCloseBracket reports whether slot i closes a (), [] or {} group.
func (s *Tokens) IsCloseBracket(i int) bool {
	return closerFamily(s.tokens[i]) != familyNone
}

// PrevMeaningful returns the nearest slot before i that is not whitespace or
// a comment.
func (s *Tokens) PrevMeaningful(i int) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		if !s.tokens[j].IsTrivia() {
			return j, true
		}
	}
	return -1, false
}

// NextMeaningful returns the nearest slot after i that is not whitespace or
// a comment.
func (s *Tokens) NextMeaningful(i int) (int, bool) {
	for j := i + 1; j < len(s.tokens); j++ {
		if !s.tokens[j].IsTrivia() {
			return j, true
		}
	}
	return -1, false
}

// MatchingBracket returns the slot of the closer that balances the opener at
// open. Only brackets of the opener's family affect depth.
func (s *Tokens) MatchingBracket(open int) (int, error) {
	if open < 0 || open >= len(s.tokens) {
		return -1, &MalformedInputError{Index: open, Bound: len(s.tokens), Reason: "bracket index out of range"}
	}

	family := openerFamily(s.tokens[open])
	if family == familyNone {
		return -1, &MalformedInputError{Index: open, Bound: len(s.tokens), Reason: "not an opening bracket"}
	}

	depth := 0
	for i := open; i < len(s.tokens); i++ {
		tok := s.tokens[i]
		if openerFamily(tok) == family {
			depth++
			continue
		}
		if closerFamily(tok) == family {
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	return -1, &MalformedInputError{Index: open, Bound: len(s.tokens), Reason: "unbalanced " + s.tokens[open].Text}
}

// AltSyntaxColon returns the ':' that opens the body of an alternative-syntax
// construct starting at i, as in "if ($x):" or "else:". The second result is
// false when the construct at i uses braces or a single statement.
func (s *Tokens) AltSyntaxColon(i int) (int, bool) {
	switch s.tokens[i].Kind {
	case KindElse:
		next, ok := s.NextMeaningful(i)
		if ok && s.tokens[next].IsChar(':') {
			return next, true
		}
		return -1, false
	case KindIf, KindElseIf, KindWhile, KindFor, KindForeach, KindSwitch:
		paren, ok := s.NextMeaningful(i)
		if !ok || !s.tokens[paren].IsChar('(') {
			return -1, false
		}
		closeParen, err := s.MatchingBracket(paren)
		if err != nil {
			return -1, false
		}
		next, ok := s.NextMeaningful(closeParen)
		if ok && s.tokens[next].IsChar(':') {
			return next, true
		}
		return -1, false
	default:
		return -1, false
	}
}

// MatchingKeywordEnd scans the slots after open and before bound for the
// first token whose kind is one of closers, at the nesting level of open.
//
// Alternative-syntax blocks nested inside the scanned span are matched to
// their own closers first, so an inner endif never ends an outer scan.
// Bracket groups are skipped whole. An else or elseif only counts as a closer
// in its alternative-syntax form, which keeps the else of a nested brace-form
// if from ending the scan.
func (s *Tokens) MatchingKeywordEnd(open, bound int, closers ...Kind) (int, error) {
	if bound > len(s.tokens) {
		bound = len(s.tokens)
	}

	var pending []Kind
	for i := open + 1; i < bound; i++ {
		tok := s.tokens[i]
		if tok.IsTrivia() {
			continue
		}

		if s.IsOpenBracket(i) {
			end, err := s.MatchingBracket(i)
			if err != nil {
				return -1, err
			}
			i = end
			continue
		}

		if s.IsCloseBracket(i) {
			return -1, &MalformedInputError{Index: open, Bound: i, Reason: "block closed by " + tok.Text}
		}

		if len(pending) == 0 && s.isCloser(i, closers) {
			return i, nil
		}

		if closer, ok := altClosers[tok.Kind]; ok {
			if colon, isAlt := s.AltSyntaxColon(i); isAlt {
				pending = append(pending, closer)
				i = colon
				continue
			}
		}

		if len(pending) > 0 && tok.Kind == pending[len(pending)-1] {
			pending = pending[:len(pending)-1]
		}
	}

	return -1, &MalformedInputError{Index: open, Bound: bound, Reason: "missing block closer"}
}

func (s *Tokens) isCloser(i int, closers []Kind) bool {
	kind := s.tokens[i].Kind
	for _, closer := range closers {
		if kind != closer {
			continue
		}
		if kind == KindElse || kind == KindElseIf {
			_, isAlt := s.AltSyntaxColon(i)
			return isAlt
		}
		return true
	}
	return false
}
