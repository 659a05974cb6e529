package fixer

import (
	"context"

	"github.com/yaklabco/gophpfix/pkg/phptoken"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// Tokenizer splits a unit of PHP source into tokens.
//
// The fixer package defines this interface where it is consumed;
// parser/php provides the implementation.
//
// Implementations must be deterministic, free of side effects, and return a
// sequence whose String() equals the unit content.
type Tokenizer interface {
	Tokenize(ctx context.Context, unit source.Unit) (*phptoken.Tokens, error)
}

// Extractor finds the PHP units embedded in a non-PHP file, such as the
// fenced code blocks of a Markdown document. parser/goldmark provides the
// implementation.
//
// Returned units must not overlap and must be sorted by offset.
type Extractor interface {
	Extract(ctx context.Context, file *source.File) ([]source.Unit, error)
}
