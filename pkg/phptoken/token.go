// Package phptoken provides the token model for PHP source: typed tokens
// carrying their exact source text, an index-stable sequence container with
// in-place mutation, and structural navigation over that sequence.
package phptoken

import (
	"strconv"
	"strings"
)

// Kind classifies a PHP token.
type Kind uint16

// Token kinds. Every byte of a source unit belongs to exactly one token.
const (
	KindWhitespace Kind = iota
	KindComment         // '//', '#', '/* */'
	KindDocComment      // '/** */'
	KindOpenTag         // '<?php', '<?='
	KindCloseTag        // '?>'
	KindInlineHTML

	KindVariable      // '$name'
	KindIdentifier    // T_STRING
	KindLNumber       // integer literal
	KindDNumber       // float literal
	KindString        // quoted string without interpolation tracking
	KindHeredoc       // heredoc/nowdoc body including markers
	KindBacktick      // shell exec string
	KindObjectOp      // '->'
	KindNullsafeOp    // '?->'
	KindDoubleColon   // '::'
	KindEllipsis      // '...'
	KindNsSeparator   // '\'
	KindAttributeOpen // '#['
	KindCurlyOpen     // '{$' and '${'
	KindOperator      // multi-character operators
	KindChar          // single-character punctuation

	KindIf
	KindElseIf
	KindElse
	KindEndIf
	KindWhile
	KindEndWhile
	KindDo
	KindFor
	KindEndFor
	KindForeach
	KindEndForeach
	KindSwitch
	KindEndSwitch
	KindReturn
	KindFunction
	KindFn
	KindClass
	KindInterface
	KindTrait
	KindEnum
	KindExtends
	KindImplements
	KindStatic
	KindAbstract
	KindFinal
	KindNew
	KindKeyword // remaining reserved words
)

//nolint:gochecknoglobals // Immutable name table.
var kindNames = [...]string{
	KindWhitespace:    "Whitespace",
	KindComment:       "Comment",
	KindDocComment:    "DocComment",
	KindOpenTag:       "OpenTag",
	KindCloseTag:      "CloseTag",
	KindInlineHTML:    "InlineHTML",
	KindVariable:      "Variable",
	KindIdentifier:    "Identifier",
	KindLNumber:       "LNumber",
	KindDNumber:       "DNumber",
	KindString:        "String",
	KindHeredoc:       "Heredoc",
	KindBacktick:      "Backtick",
	KindObjectOp:      "ObjectOp",
	KindNullsafeOp:    "NullsafeOp",
	KindDoubleColon:   "DoubleColon",
	KindEllipsis:      "Ellipsis",
	KindNsSeparator:   "NsSeparator",
	KindAttributeOpen: "AttributeOpen",
	KindCurlyOpen:     "CurlyOpen",
	KindOperator:      "Operator",
	KindChar:          "Char",
	KindIf:            "If",
	KindElseIf:        "ElseIf",
	KindElse:          "Else",
	KindEndIf:         "EndIf",
	KindWhile:         "While",
	KindEndWhile:      "EndWhile",
	KindDo:            "Do",
	KindFor:           "For",
	KindEndFor:        "EndFor",
	KindForeach:       "Foreach",
	KindEndForeach:    "EndForeach",
	KindSwitch:        "Switch",
	KindEndSwitch:     "EndSwitch",
	KindReturn:        "Return",
	KindFunction:      "Function",
	KindFn:            "Fn",
	KindClass:         "Class",
	KindInterface:     "Interface",
	KindTrait:         "Trait",
	KindEnum:          "Enum",
	KindExtends:       "Extends",
	KindImplements:    "Implements",
	KindStatic:        "Static",
	KindAbstract:      "Abstract",
	KindFinal:         "Final",
	KindNew:           "New",
	KindKeyword:       "Keyword",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsTrivia reports whether tokens of this kind carry no syntax.
func (k Kind) IsTrivia() bool {
	return k == KindWhitespace || k == KindComment || k == KindDocComment
}

//nolint:gochecknoglobals // Immutable keyword table, keyed by lowercase text.
var keywords = map[string]Kind{
	"if":         KindIf,
	"elseif":     KindElseIf,
	"else":       KindElse,
	"endif":      KindEndIf,
	"while":      KindWhile,
	"endwhile":   KindEndWhile,
	"do":         KindDo,
	"for":        KindFor,
	"endfor":     KindEndFor,
	"foreach":    KindForeach,
	"endforeach": KindEndForeach,
	"switch":     KindSwitch,
	"endswitch":  KindEndSwitch,
	"return":     KindReturn,
	"function":   KindFunction,
	"fn":         KindFn,
	"class":      KindClass,
	"interface":  KindInterface,
	"trait":      KindTrait,
	"enum":       KindEnum,
	"extends":    KindExtends,
	"implements": KindImplements,
	"static":     KindStatic,
	"abstract":   KindAbstract,
	"final":      KindFinal,
	"new":        KindNew,

	"array": KindKeyword, "as": KindKeyword, "break": KindKeyword,
	"callable": KindKeyword, "case": KindKeyword, "catch": KindKeyword,
	"clone": KindKeyword, "const": KindKeyword, "continue": KindKeyword,
	"declare": KindKeyword, "default": KindKeyword, "echo": KindKeyword,
	"empty": KindKeyword, "enddeclare": KindKeyword, "eval": KindKeyword,
	"exit": KindKeyword, "die": KindKeyword, "finally": KindKeyword,
	"global": KindKeyword, "goto": KindKeyword, "include": KindKeyword,
	"include_once": KindKeyword, "instanceof": KindKeyword,
	"insteadof": KindKeyword, "isset": KindKeyword, "list": KindKeyword,
	"match": KindKeyword, "namespace": KindKeyword, "print": KindKeyword,
	"private": KindKeyword, "protected": KindKeyword, "public": KindKeyword,
	"readonly": KindKeyword, "require": KindKeyword,
	"require_once": KindKeyword, "throw": KindKeyword, "try": KindKeyword,
	"unset": KindKeyword, "use": KindKeyword, "var": KindKeyword,
	"yield": KindKeyword, "and": KindKeyword, "or": KindKeyword,
	"xor": KindKeyword, "__halt_compiler": KindKeyword,
}

// KeywordKind returns the keyword kind for word, matched case-insensitively.
// The second result is false for words that are not reserved.
func KeywordKind(word string) (Kind, bool) {
	kind, ok := keywords[strings.ToLower(word)]
	return kind, ok
}

// Token is one lexical unit of PHP source.
type Token struct {
	// Kind classifies the token.
	Kind Kind

	// Text is the exact source text of the token. Cleared tokens have empty text.
	Text string
}

// New returns a token of the given kind and text.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// Char returns a single-character punctuation token.
func Char(c byte) Token {
	return Token{Kind: KindChar, Text: string(c)}
}

// Equals reports whether both kind and text match exactly.
func (t Token) Equals(other Token) bool {
	return t.Kind == other.Kind && t.Text == other.Text
}

// EqualsFold compares kind exactly and text case-insensitively, the way PHP
// compares identifiers, keywords, and method names.
func (t Token) EqualsFold(other Token) bool {
	return t.Kind == other.Kind && strings.EqualFold(t.Text, other.Text)
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// IsChar reports whether the token is the punctuation character c.
func (t Token) IsChar(c byte) bool {
	return t.Kind == KindChar && len(t.Text) == 1 && t.Text[0] == c
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool {
	return t.Kind.IsTrivia()
}

// IsEmpty reports whether the token has no text, as cleared tokens do.
func (t Token) IsEmpty() bool {
	return t.Text == ""
}
