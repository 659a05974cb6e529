// Package goldmark finds PHP code blocks in Markdown documents using the
// goldmark parser, so that documentation snippets can be fixed in place.
package goldmark

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gophpfix/pkg/langdetect"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// Extractor implements fixer.Extractor for Markdown files.
//
// A fenced block becomes a unit when its info string names PHP, or when it
// has no info string and its content is detected as PHP. Blocks nested in
// containers whose markers interleave with the code, such as block quotes,
// are skipped because their code is not a contiguous span of the file.
type Extractor struct {
	md goldmark.Markdown

	// DetectUnlabeled enables language detection for fences without an
	// info string.
	DetectUnlabeled bool
}

// New creates an Extractor that also detects unlabeled PHP fences.
func New() *Extractor {
	return &Extractor{
		md:              goldmark.New(goldmark.WithExtensions(extension.GFM)),
		DetectUnlabeled: true,
	}
}

// Extract returns the PHP units of file in document order.
func (e *Extractor) Extract(ctx context.Context, file *source.File) ([]source.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(file.Content), parser.WithContext(parser.NewContext()))

	var units []source.Unit
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if unit, ok := e.unitOf(block, file.Content); ok {
			units = append(units, unit)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}

	return units, nil
}

func (e *Extractor) unitOf(block *ast.FencedCodeBlock, content []byte) (source.Unit, bool) {
	start, end, ok := contiguousSpan(block.Lines())
	if !ok {
		return source.Unit{}, false
	}
	code := content[start:end]

	if !e.isPHP(block, content, code) {
		return source.Unit{}, false
	}

	return source.Unit{
		Offset:  start,
		Content: code,
		Code:    !hasOpenTag(code),
	}, true
}

func (e *Extractor) isPHP(block *ast.FencedCodeBlock, content, code []byte) bool {
	if block.Info == nil {
		return e.DetectUnlabeled && langdetect.IsPHP(code)
	}

	lang := strings.ToLower(string(block.Language(content)))
	switch lang {
	case "php", "php3", "php4", "php5", "php7", "php8", "phtml", "inc":
		return true
	case "":
		return e.DetectUnlabeled && langdetect.IsPHP(code)
	default:
		return false
	}
}

// contiguousSpan returns the byte range covered by a block's lines when the
// lines follow each other without gaps or stripped indentation.
func contiguousSpan(lines *text.Segments) (int, int, bool) {
	if lines.Len() == 0 {
		return 0, 0, false
	}

	first := lines.At(0)
	start, end := first.Start, first.Stop
	for i := range lines.Len() {
		seg := lines.At(i)
		if seg.Padding != 0 || (i > 0 && seg.Start != end) {
			return 0, 0, false
		}
		end = seg.Stop
	}
	return start, end, true
}

func hasOpenTag(code []byte) bool {
	trimmed := bytes.TrimLeft(code, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("<?php")) || bytes.HasPrefix(trimmed, []byte("<?="))
}
