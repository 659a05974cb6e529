package phptoken

import "strings"

// Tokens is an ordered, index-addressable token sequence.
//
// Mutation is limited to replacing or clearing a slot, so an index obtained
// before a mutation stays valid after it. The sequence remembers the tokens it
// was built from, which lets callers turn mutations back into byte edits
// against the original source.
type Tokens struct {
	tokens   []Token
	original []Token
	offsets  []int
}

// Change describes one mutated slot in terms of the source it was built from.
type Change struct {
	// Index is the slot that changed.
	Index int

	// StartOffset is the byte offset of the original token (inclusive).
	StartOffset int

	// EndOffset is the byte offset just past the original token (exclusive).
	EndOffset int

	// Text is the current text of the slot.
	Text string
}

// NewTokens builds a sequence from tokens whose texts, concatenated, form the
// source. The slice is copied.
func NewTokens(tokens []Token) *Tokens {
	seq := &Tokens{
		tokens:   make([]Token, len(tokens)),
		original: make([]Token, len(tokens)),
		offsets:  make([]int, len(tokens)),
	}
	copy(seq.tokens, tokens)
	copy(seq.original, tokens)

	offset := 0
	for i, tok := range tokens {
		seq.offsets[i] = offset
		offset += len(tok.Text)
	}

	return seq
}

// Len returns the number of slots.
func (s *Tokens) Len() int {
	return len(s.tokens)
}

// At returns the token in slot i. It panics if i is out of range.
func (s *Tokens) At(i int) Token {
	return s.tokens[i]
}

// Set replaces the token in slot i.
func (s *Tokens) Set(i int, tok Token) {
	s.tokens[i] = tok
}

// ClearAt turns slot i into an empty whitespace placeholder. The slot keeps
// its index and serializes to nothing.
func (s *Tokens) ClearAt(i int) {
	s.tokens[i] = Token{Kind: KindWhitespace}
}

// Clone returns an independent copy. Mutating the clone leaves s untouched;
// both share the same original source for change tracking.
func (s *Tokens) Clone() *Tokens {
	clone := &Tokens{
		tokens:   make([]Token, len(s.tokens)),
		original: s.original,
		offsets:  s.offsets,
	}
	copy(clone.tokens, s.tokens)
	return clone
}

// Offset returns the original byte offset of slot i.
func (s *Tokens) Offset(i int) int {
	return s.offsets[i]
}

// Changed reports whether slot i differs from the token it was built with.
func (s *Tokens) Changed(i int) bool {
	return !s.tokens[i].Equals(s.original[i])
}

// Edit describes slot i as a replacement of its original byte span by its
// current text.
func (s *Tokens) Edit(i int) Change {
	return Change{
		Index:       i,
		StartOffset: s.offsets[i],
		EndOffset:   s.offsets[i] + len(s.original[i].Text),
		Text:        s.tokens[i].Text,
	}
}

// Changes lists every mutated slot in index order.
func (s *Tokens) Changes() []Change {
	var changes []Change
	for i := range s.tokens {
		if s.Changed(i) {
			changes = append(changes, s.Edit(i))
		}
	}
	return changes
}

// String concatenates the text of every slot. Cleared slots contribute nothing.
func (s *Tokens) String() string {
	var builder strings.Builder
	for _, tok := range s.tokens {
		builder.WriteString(tok.Text)
	}
	return builder.String()
}

// Tokens returns a copy of the current slots.
func (s *Tokens) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}
