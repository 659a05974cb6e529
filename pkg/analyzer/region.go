package analyzer

import (
	"errors"

	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

// ErrNotControlBlock is returned when a block operation is given a slot that
// does not open a control construct.
var ErrNotControlBlock = errors.New("token does not open a control block")

// BlockKind identifies a control-flow construct.
type BlockKind uint8

// Control-flow constructs recognized by the classifier.
const (
	BlockIf BlockKind = iota + 1
	BlockElseIf
	BlockElse
	BlockWhile
	BlockDo
	BlockFor
	BlockForeach
	BlockSwitch
)

// blockSpec describes the shape of one construct.
type blockSpec struct {
	kind      BlockKind
	name      string
	loop      bool
	condition bool
	closers   []phptoken.Kind
}

//nolint:gochecknoglobals // Immutable opener table.
var blockSpecs = map[phptoken.Kind]blockSpec{
	phptoken.KindIf: {
		kind: BlockIf, name: "if", condition: true,
		closers: []phptoken.Kind{phptoken.KindElseIf, phptoken.KindElse, phptoken.KindEndIf},
	},
	phptoken.KindElseIf: {
		kind: BlockElseIf, name: "elseif", condition: true,
		closers: []phptoken.Kind{phptoken.KindElseIf, phptoken.KindElse, phptoken.KindEndIf},
	},
	phptoken.KindElse: {
		kind: BlockElse, name: "else",
		closers: []phptoken.Kind{phptoken.KindEndIf},
	},
	phptoken.KindWhile: {
		kind: BlockWhile, name: "while", loop: true, condition: true,
		closers: []phptoken.Kind{phptoken.KindEndWhile},
	},
	phptoken.KindDo: {
		kind: BlockDo, name: "do", loop: true,
	},
	phptoken.KindFor: {
		kind: BlockFor, name: "for", loop: true, condition: true,
		closers: []phptoken.Kind{phptoken.KindEndFor},
	},
	phptoken.KindForeach: {
		kind: BlockForeach, name: "foreach", loop: true, condition: true,
		closers: []phptoken.Kind{phptoken.KindEndForeach},
	},
	phptoken.KindSwitch: {
		kind: BlockSwitch, name: "switch", condition: true,
		closers: []phptoken.Kind{phptoken.KindEndSwitch},
	},
}

//nolint:gochecknoglobals // Reverse lookup built once from blockSpecs.
var specsByKind = func() map[BlockKind]blockSpec {
	out := make(map[BlockKind]blockSpec, len(blockSpecs))
	for _, spec := range blockSpecs {
		out[spec.kind] = spec
	}
	return out
}()

// String returns the opening keyword of the construct.
func (k BlockKind) String() string {
	if spec, ok := specsByKind[k]; ok {
		return spec.name
	}
	return "unknown"
}

// IsLoop reports whether the construct repeats its body.
func (k BlockKind) IsLoop() bool {
	return specsByKind[k].loop
}

// IsConditional reports whether the construct is a branch of an if chain.
func (k BlockKind) IsConditional() bool {
	return k == BlockIf || k == BlockElseIf || k == BlockElse
}

// Opaque reports whether the construct is always skipped whole. Loops and
// switches never expose a terminal position of the enclosing branch.
func (k BlockKind) Opaque() bool {
	return !k.IsConditional()
}

// ControlBlockAt reports the construct opened by slot i, if any.
func ControlBlockAt(tokens *phptoken.Tokens, i int) (BlockKind, bool) {
	spec, ok := blockSpecs[tokens.At(i).Kind]
	if !ok {
		return 0, false
	}
	return spec.kind, true
}

// BodyForm is the syntax a construct body uses.
type BodyForm uint8

// Body forms.
const (
	FormBrace     BodyForm = iota + 1 // { ... }
	FormAlt                           // : ... endX
	FormStatement                     // a single statement
)

// Body locates the body of one control construct.
type Body struct {
	Kind BlockKind
	Form BodyForm

	// Open is "{" or ":" for delimited bodies and the first slot of the
	// statement for FormStatement.
	Open int

	// Close is "}" for FormBrace, the closing keyword (endX, else or elseif)
	// for FormAlt, and the last slot of the statement for FormStatement.
	Close int
}

// Inner returns the half-open slot range holding the body's statements.
func (b Body) Inner() (int, int) {
	if b.Form == FormStatement {
		return b.Open, b.Close + 1
	}
	return b.Open + 1, b.Close
}

// BlockBody locates the body of the construct opened at opener. All slots of
// the body lie before bound.
func BlockBody(tokens *phptoken.Tokens, opener, bound int) (Body, error) {
	spec, ok := blockSpecs[tokens.At(opener).Kind]
	if !ok {
		return Body{}, ErrNotControlBlock
	}

	pos := opener
	if spec.condition {
		paren, found := tokens.NextMeaningful(pos)
		if !found || paren >= bound || !tokens.At(paren).IsChar('(') {
			return Body{}, malformed(opener, bound, spec.name+" without condition")
		}
		closeParen, err := tokens.MatchingBracket(paren)
		if err != nil {
			return Body{}, err
		}
		pos = closeParen
	}

	start, found := tokens.NextMeaningful(pos)
	if !found || start >= bound {
		return Body{}, malformed(opener, bound, spec.name+" without body")
	}

	body := Body{Kind: spec.kind, Open: start}
	tok := tokens.At(start)

	switch {
	case tok.IsChar('{'):
		closeBrace, err := tokens.MatchingBracket(start)
		if err != nil {
			return Body{}, err
		}
		body.Form, body.Close = FormBrace, closeBrace
	case tok.IsChar(':') && len(spec.closers) > 0:
		closer, err := tokens.MatchingKeywordEnd(start, bound, spec.closers...)
		if err != nil {
			return Body{}, err
		}
		body.Form, body.Close = FormAlt, closer
	default:
		end, err := statementEnd(tokens, start, bound)
		if err != nil {
			return Body{}, err
		}
		body.Form, body.Close = FormStatement, end
	}

	if body.Close >= bound {
		return Body{}, malformed(opener, bound, spec.name+" body runs past bound")
	}

	return body, nil
}

// ConstructEnd returns the last slot of the whole construct at opener: its
// else chain, the condition of a do-while, and the terminator after an
// alternative-syntax closer.
func ConstructEnd(tokens *phptoken.Tokens, opener, bound int) (int, error) {
	body, err := BlockBody(tokens, opener, bound)
	if err != nil {
		return -1, err
	}

	switch body.Kind {
	case BlockDo:
		return doWhileEnd(tokens, body.Close, bound)
	case BlockIf, BlockElseIf, BlockElse:
		if body.Form == FormAlt {
			if tokens.At(body.Close).Kind == phptoken.KindEndIf {
				return terminatorAfter(tokens, body.Close, bound), nil
			}
			return ConstructEnd(tokens, body.Close, bound)
		}
		if body.Kind == BlockElse {
			return body.Close, nil
		}
		next, ok := tokens.NextMeaningful(body.Close)
		if ok && next < bound {
			kind := tokens.At(next).Kind
			if kind == phptoken.KindElseIf || kind == phptoken.KindElse {
				return ConstructEnd(tokens, next, bound)
			}
		}
		return body.Close, nil
	default:
		if body.Form == FormAlt {
			return terminatorAfter(tokens, body.Close, bound), nil
		}
		return body.Close, nil
	}
}

func doWhileEnd(tokens *phptoken.Tokens, bodyEnd, bound int) (int, error) {
	while, ok := tokens.NextMeaningful(bodyEnd)
	if !ok || while >= bound || tokens.At(while).Kind != phptoken.KindWhile {
		return -1, malformed(bodyEnd, bound, "do without while")
	}
	paren, ok := tokens.NextMeaningful(while)
	if !ok || paren >= bound || !tokens.At(paren).IsChar('(') {
		return -1, malformed(while, bound, "do-while without condition")
	}
	closeParen, err := tokens.MatchingBracket(paren)
	if err != nil {
		return -1, err
	}
	return terminatorAfter(tokens, closeParen, bound), nil
}

// terminatorAfter returns the ";" following i, or i itself when the
// statement is ended by a close tag or nothing.
func terminatorAfter(tokens *phptoken.Tokens, i, bound int) int {
	next, ok := tokens.NextMeaningful(i)
	if ok && next < bound && tokens.At(next).IsChar(';') {
		return next
	}
	return i
}

// statementEnd returns the last slot of the statement starting at start.
func statementEnd(tokens *phptoken.Tokens, start, bound int) (int, error) {
	if _, ok := ControlBlockAt(tokens, start); ok {
		return ConstructEnd(tokens, start, bound)
	}

	for i := start; i < bound; i++ {
		tok := tokens.At(i)
		switch {
		case tok.IsChar(';'), tok.Kind == phptoken.KindCloseTag:
			return i, nil
		case tokens.IsOpenBracket(i):
			end, err := tokens.MatchingBracket(i)
			if err != nil {
				return -1, err
			}
			i = end
		case tokens.IsCloseBracket(i):
			return -1, malformed(start, i, "statement closed by "+tok.Text)
		}
	}

	return -1, malformed(start, bound, "unterminated statement")
}

// Reach is the outcome of classifying one control block.
type Reach struct {
	exits bool
	end   int
	next  int
}

// FallsThrough reports the last slot of a block whose end control reaches
// normally. The block is skipped whole.
func (r Reach) FallsThrough() (int, bool) {
	return r.end, !r.exits
}

// ExitsEarly reports whether the branch returns at its own level, which makes
// its statements eligible for rewriting.
func (r Reach) ExitsEarly() bool {
	return r.exits
}

// Next returns the slot where an enclosing scan resumes. For a branch that
// exits early that is its first body slot. For "else if" it is the if.
// Otherwise it is the slot after the block, or the chained else or elseif
// that closes an alternative-syntax branch.
func (r Reach) Next() int {
	return r.next
}

// ReachableEnd classifies the construct opened at opener.
//
// Loops and switches always fall through and are skipped through their whole
// construct. Each branch of an if chain is classified on its own: it exits
// early when a return statement sits directly in its body. Nested
// constructs, closures, and other bracket groups in the body are opaque.
func ReachableEnd(tokens *phptoken.Tokens, opener, bound int) (Reach, error) {
	kind, ok := ControlBlockAt(tokens, opener)
	if !ok {
		return Reach{}, ErrNotControlBlock
	}

	if kind.Opaque() {
		end, err := ConstructEnd(tokens, opener, bound)
		if err != nil {
			return Reach{}, err
		}
		return Reach{end: end, next: end + 1}, nil
	}

	body, err := BlockBody(tokens, opener, bound)
	if err != nil {
		return Reach{}, err
	}

	// "else if" has no statements of its own; the if is classified next.
	if kind == BlockElse && body.Form == FormStatement && tokens.At(body.Open).Kind == phptoken.KindIf {
		return Reach{end: opener, next: body.Open}, nil
	}

	first, last := body.Inner()
	exits, err := returnsAtLevel(tokens, first, last)
	if err != nil {
		return Reach{}, err
	}
	if exits {
		return Reach{exits: true, end: body.Close, next: first}, nil
	}

	end, next := body.Close, body.Close+1
	if body.Form == FormAlt {
		switch tokens.At(body.Close).Kind {
		case phptoken.KindElse, phptoken.KindElseIf:
			next = body.Close
		default:
			end = terminatorAfter(tokens, body.Close, bound)
			next = end + 1
		}
	}

	return Reach{end: end, next: next}, nil
}

// returnsAtLevel reports whether a return keyword lies in [start, end)
// outside every nested construct and bracket group.
func returnsAtLevel(tokens *phptoken.Tokens, start, end int) (bool, error) {
	for i := start; i < end; i++ {
		tok := tokens.At(i)
		switch {
		case tok.Kind == phptoken.KindReturn:
			return true, nil
		case tokens.IsOpenBracket(i):
			closeIdx, err := tokens.MatchingBracket(i)
			if err != nil {
				return false, err
			}
			i = closeIdx
		default:
			if _, ok := ControlBlockAt(tokens, i); ok {
				constructEnd, err := ConstructEnd(tokens, i, end)
				if err != nil {
					return false, err
				}
				i = constructEnd
			}
		}
	}
	return false, nil
}

func malformed(index, bound int, reason string) error {
	return &phptoken.MalformedInputError{Index: index, Bound: bound, Reason: reason}
}
