package php

import (
	"bytes"

	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

// lexer performs a single pass over PHP source. It produces tokens that are
// contiguous and cover every byte, so their texts concatenate back to the
// input.
type lexer struct {
	content []byte
	tokens  []phptoken.Token
	pos     int
	code    bool
}

//nolint:gochecknoglobals // Operators ordered longest first.
var operators = []string{
	"<<=", ">>=", "**=", "??=", "===", "!==", "<=>", "?->", "...",
	"->", "::", "=>", "**", "==", "!=", "<>", "<=", ">=", "&&", "||", "??",
	"++", "--", "+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=", "<<", ">>",
}

// Lex tokenizes content. When code is false the lexer starts in inline HTML
// and waits for an open tag, as PHP does for a file. When code is true the
// content is treated as if it already followed "<?php".
func Lex(content []byte, code bool) []phptoken.Token {
	const initialCapacityDivisor = 3
	lex := &lexer{
		content: content,
		tokens:  make([]phptoken.Token, 0, len(content)/initialCapacityDivisor+1),
		code:    code,
	}

	for lex.pos < len(lex.content) {
		if lex.code {
			lex.lexCode()
		} else {
			lex.lexInlineHTML()
		}
	}

	return lex.tokens
}

func (l *lexer) emit(kind phptoken.Kind, end int) {
	l.tokens = append(l.tokens, phptoken.Token{Kind: kind, Text: string(l.content[l.pos:end])})
	l.pos = end
}

func (l *lexer) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(l.content[l.pos:], []byte(prefix))
}

// lexInlineHTML emits text up to the next open tag, then the tag itself.
func (l *lexer) lexInlineHTML() {
	start := l.pos
	scan := l.pos
	for {
		idx := bytes.Index(l.content[scan:], []byte("<?"))
		if idx < 0 {
			l.emit(phptoken.KindInlineHTML, len(l.content))
			return
		}
		scan += idx
		if tagLen := openTagLen(l.content[scan:]); tagLen > 0 {
			if scan > start {
				l.emit(phptoken.KindInlineHTML, scan)
			}
			l.emit(phptoken.KindOpenTag, scan+tagLen)
			l.code = true
			return
		}
		scan += len("<?")
	}
}

// openTagLen returns the length of the open tag at the start of rest,
// including the single line break or blank PHP folds into "<?php", or zero.
func openTagLen(rest []byte) int {
	const long = "<?php"
	switch {
	case bytes.HasPrefix(rest, []byte("<?=")):
		return len("<?=")
	case len(rest) >= len(long) && bytes.EqualFold(rest[:len(long)], []byte(long)):
		tail := rest[len(long):]
		switch {
		case len(tail) == 0:
			return len(long)
		case tail[0] == ' ' || tail[0] == '\t' || tail[0] == '\n':
			return len(long) + 1
		case bytes.HasPrefix(tail, []byte("\r\n")):
			return len(long) + 2
		case tail[0] == '\r':
			return len(long) + 1
		}
		return 0
	default:
		return 0
	}
}

func (l *lexer) lexCode() {
	c := l.content[l.pos]

	switch {
	case isSpace(c):
		l.lexWhitespace()
	case l.hasPrefix("?>"):
		l.lexCloseTag()
	case l.hasPrefix("#["):
		l.emit(phptoken.KindAttributeOpen, l.pos+2)
	case c == '#' || l.hasPrefix("//"):
		l.lexLineComment()
	case l.hasPrefix("/*"):
		l.lexBlockComment()
	case c == '$':
		l.lexDollar()
	case isIdentStart(c):
		l.lexWord()
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.content) && isDigit(l.content[l.pos+1])):
		l.lexNumber()
	case c == '\'':
		l.lexQuoted('\'', phptoken.KindString)
	case c == '"':
		l.lexQuoted('"', phptoken.KindString)
	case c == '`':
		l.lexQuoted('`', phptoken.KindBacktick)
	case l.hasPrefix("<<<") && l.lexHeredoc():
	case c == '\\':
		l.emit(phptoken.KindNsSeparator, l.pos+1)
	default:
		l.lexOperator()
	}
}

func (l *lexer) lexWhitespace() {
	end := l.pos
	for end < len(l.content) && isSpace(l.content[end]) {
		end++
	}
	l.emit(phptoken.KindWhitespace, end)
}

func (l *lexer) lexCloseTag() {
	end := l.pos + len("?>")
	if end < len(l.content) && l.content[end] == '\n' {
		end++
	} else if end+1 < len(l.content) && l.content[end] == '\r' && l.content[end+1] == '\n' {
		end += 2
	}
	l.emit(phptoken.KindCloseTag, end)
	l.code = false
}

// lexLineComment stops before the newline or a close tag, whichever is first.
func (l *lexer) lexLineComment() {
	end := l.pos
	for end < len(l.content) {
		if l.content[end] == '\n' || l.content[end] == '\r' {
			break
		}
		if l.content[end] == '?' && end+1 < len(l.content) && l.content[end+1] == '>' {
			break
		}
		end++
	}
	l.emit(phptoken.KindComment, end)
}

func (l *lexer) lexBlockComment() {
	kind := phptoken.KindComment
	if l.pos+3 < len(l.content) && l.content[l.pos+2] == '*' && isSpace(l.content[l.pos+3]) {
		kind = phptoken.KindDocComment
	}

	idx := bytes.Index(l.content[l.pos+2:], []byte("*/"))
	if idx < 0 {
		l.emit(kind, len(l.content))
		return
	}
	l.emit(kind, l.pos+2+idx+2)
}

func (l *lexer) lexDollar() {
	next := l.pos + 1
	switch {
	case next < len(l.content) && isIdentStart(l.content[next]):
		end := next + 1
		for end < len(l.content) && isIdentChar(l.content[end]) {
			end++
		}
		l.emit(phptoken.KindVariable, end)
	case next < len(l.content) && l.content[next] == '{':
		l.emit(phptoken.KindCurlyOpen, next+1)
	default:
		l.emit(phptoken.KindChar, next)
	}
}

// lexWord emits an identifier or keyword. Reserved words used as member or
// method names after "->", "?->", "::" or "function" stay identifiers.
func (l *lexer) lexWord() {
	end := l.pos + 1
	for end < len(l.content) && isIdentChar(l.content[end]) {
		end++
	}

	word := string(l.content[l.pos:end])
	kind, reserved := phptoken.KeywordKind(word)
	if !reserved || l.afterMemberAccess() {
		kind = phptoken.KindIdentifier
	}
	l.emit(kind, end)
}

func (l *lexer) afterMemberAccess() bool {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		tok := l.tokens[i]
		if tok.IsTrivia() {
			continue
		}
		switch tok.Kind {
		case phptoken.KindObjectOp, phptoken.KindNullsafeOp, phptoken.KindDoubleColon, phptoken.KindFunction:
			return true
		}
		return tok.IsChar('&') && i > 0 && l.previousIsFunction(i)
	}
	return false
}

func (l *lexer) previousIsFunction(before int) bool {
	for i := before - 1; i >= 0; i-- {
		if l.tokens[i].IsTrivia() {
			continue
		}
		return l.tokens[i].Kind == phptoken.KindFunction
	}
	return false
}

func (l *lexer) lexNumber() {
	end := l.pos
	kind := phptoken.KindLNumber

	if l.content[end] == '0' && end+1 < len(l.content) {
		switch l.content[end+1] | 0x20 {
		case 'x':
			end = scanWhile(l.content, end+2, isHexDigit)
			l.emit(kind, end)
			return
		case 'b':
			end = scanWhile(l.content, end+2, isBinDigit)
			l.emit(kind, end)
			return
		case 'o':
			end = scanWhile(l.content, end+2, isOctDigit)
			l.emit(kind, end)
			return
		}
	}

	end = scanWhile(l.content, end, isDecDigit)
	if end < len(l.content) && l.content[end] == '.' && !bytes.HasPrefix(l.content[end:], []byte("...")) {
		kind = phptoken.KindDNumber
		end = scanWhile(l.content, end+1, isDecDigit)
	}
	if end < len(l.content) && l.content[end]|0x20 == 'e' {
		exp := end + 1
		if exp < len(l.content) && (l.content[exp] == '+' || l.content[exp] == '-') {
			exp++
		}
		if exp < len(l.content) && isDigit(l.content[exp]) {
			kind = phptoken.KindDNumber
			end = scanWhile(l.content, exp, isDecDigit)
		}
	}
	l.emit(kind, end)
}

// lexQuoted consumes a quoted literal honoring backslash escapes and, outside
// single quotes, "{$" and "${" interpolations. An unterminated literal runs
// to the end of the input.
func (l *lexer) lexQuoted(quote byte, kind phptoken.Kind) {
	l.emit(kind, scanQuoted(l.content, l.pos, quote))
}

// scanQuoted returns the offset just past the literal whose opening quote is
// at start.
func scanQuoted(content []byte, start int, quote byte) int {
	pos := start + 1
	for pos < len(content) {
		switch c := content[pos]; {
		case c == '\\':
			pos += 2
		case c == quote:
			return pos + 1
		case quote != '\'' && interpolationAt(content, pos):
			pos = skipInterpolation(content, pos)
		default:
			pos++
		}
	}
	return len(content)
}

// interpolationAt reports whether a "{$" or "${" interpolation starts at pos.
func interpolationAt(content []byte, pos int) bool {
	if pos+1 >= len(content) {
		return false
	}
	return (content[pos] == '{' && content[pos+1] == '$') ||
		(content[pos] == '$' && content[pos+1] == '{')
}

// skipInterpolation returns the offset just past the "}" closing the
// interpolation at pos. Quoted literals inside the expression are skipped
// whole, so their braces do not count.
func skipInterpolation(content []byte, pos int) int {
	if content[pos] == '$' {
		pos++
	}
	depth := 0
	for pos < len(content) {
		switch c := content[pos]; c {
		case '\'', '"', '`':
			pos = scanQuoted(content, pos, c)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return pos + 1
			}
		}
		pos++
	}
	return len(content)
}

// lexHeredoc consumes a heredoc or nowdoc including its closing label. It
// reports false when the "<<<" does not start a valid heredoc header.
func (l *lexer) lexHeredoc() bool {
	pos := l.pos + len("<<<")
	pos = scanWhile(l.content, pos, func(c byte) bool { return c == ' ' || c == '\t' })

	var quote byte
	if pos < len(l.content) && (l.content[pos] == '\'' || l.content[pos] == '"') {
		quote = l.content[pos]
		pos++
	}

	if pos >= len(l.content) || !isIdentStart(l.content[pos]) {
		return false
	}
	labelStart := pos
	pos = scanWhile(l.content, pos, isIdentChar)
	label := l.content[labelStart:pos]

	if quote != 0 {
		if pos >= len(l.content) || l.content[pos] != quote {
			return false
		}
		pos++
	}
	if pos < len(l.content) && l.content[pos] == '\r' {
		pos++
	}
	if pos >= len(l.content) || l.content[pos] != '\n' {
		return false
	}
	pos++

	for pos < len(l.content) {
		indent := scanWhile(l.content, pos, func(c byte) bool { return c == ' ' || c == '\t' })
		if bytes.HasPrefix(l.content[indent:], label) {
			after := indent + len(label)
			if after >= len(l.content) || !isIdentChar(l.content[after]) {
				l.emit(phptoken.KindHeredoc, after)
				return true
			}
		}
		pos = l.heredocLineEnd(pos, quote == '\'')
	}

	l.emit(phptoken.KindHeredoc, len(l.content))
	return true
}

// heredocLineEnd returns the start of the line after the one at pos. In a
// heredoc an interpolation may span lines and hide a closing label.
func (l *lexer) heredocLineEnd(pos int, nowdoc bool) int {
	for pos < len(l.content) {
		switch {
		case l.content[pos] == '\n':
			return pos + 1
		case nowdoc:
			pos++
		case l.content[pos] == '\\':
			pos += 2
		case interpolationAt(l.content, pos):
			pos = skipInterpolation(l.content, pos)
		default:
			pos++
		}
	}
	return len(l.content)
}

func (l *lexer) lexOperator() {
	for _, op := range operators {
		if !l.hasPrefix(op) {
			continue
		}
		kind := phptoken.KindOperator
		switch op {
		case "->":
			kind = phptoken.KindObjectOp
		case "?->":
			kind = phptoken.KindNullsafeOp
		case "::":
			kind = phptoken.KindDoubleColon
		case "...":
			kind = phptoken.KindEllipsis
		}
		l.emit(kind, l.pos+len(op))
		return
	}
	l.emit(phptoken.KindChar, l.pos+1)
}

func scanWhile(content []byte, pos int, pred func(byte) bool) int {
	for pos < len(content) && pred(content[pos]) {
		pos++
	}
	return pos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDecDigit(c byte) bool { return isDigit(c) || c == '_' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') || c == '_'
}

func isBinDigit(c byte) bool { return c == '0' || c == '1' || c == '_' }

func isOctDigit(c byte) bool { return (c >= '0' && c <= '7') || c == '_' }

func isIdentStart(c byte) bool {
	return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
