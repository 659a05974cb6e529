// Package php provides a lossless PHP tokenizer. It classifies every byte of
// a source unit into phptoken kinds without building a syntax tree.
package php

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gophpfix/pkg/phptoken"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// ErrLossyTokenization is returned when the token texts do not reproduce the
// unit byte for byte.
var ErrLossyTokenization = errors.New("token stream does not reproduce source")

// Tokenizer implements fixer.Tokenizer. It holds no state and is safe for
// concurrent use.
type Tokenizer struct{}

// New creates a Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize converts a unit into a token sequence that serializes back to the
// unit's exact bytes.
func (t *Tokenizer) Tokenize(ctx context.Context, unit source.Unit) (*phptoken.Tokens, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tokenize cancelled: %w", err)
	}

	tokens := phptoken.NewTokens(Lex(unit.Content, unit.Code))

	if tokens.String() != string(unit.Content) {
		return nil, ErrLossyTokenization
	}

	return tokens, nil
}
