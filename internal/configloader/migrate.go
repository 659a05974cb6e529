package configloader

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/parser/php"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

// MigrationResult contains the result of converting a PHP-CS-Fixer config.
type MigrationResult struct {
	// Config is the converted gophpfix configuration.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the original PHP-CS-Fixer config.
	SourcePath string

	// Converted lists the fixer IDs that received configuration.
	Converted []string
}

// ConvertPHPCSFixerConfig reads a PHP-CS-Fixer config file and converts the
// literal arguments of its setRules and setRiskyAllowed calls. Rule names
// resolve through the default registry's IDs, names and aliases.
func ConvertPHPCSFixerConfig(ctx context.Context, path string) (*MigrationResult, error) {
	return convertFile(ctx, path, fixer.DefaultRegistry)
}

func convertFile(ctx context.Context, path string, registry *fixer.Registry) (*MigrationResult, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	result, err := ConvertPHPCSFixerSource(content, registry)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	result.SourcePath = path
	return result, nil
}

// ConvertPHPCSFixerSource converts PHP-CS-Fixer config source using registry
// to resolve rule names.
func ConvertPHPCSFixerSource(content []byte, registry *fixer.Registry) (*MigrationResult, error) {
	code := !hasOpenTag(content)
	p := &cfgParser{tokens: phptoken.NewTokens(php.Lex(content, code))}

	result := &MigrationResult{Config: config.NewConfig()}
	foundRules := false

	for i := 0; i < p.tokens.Len(); i++ {
		method, open, ok := p.methodCall(i)
		if !ok {
			continue
		}

		switch strings.ToLower(method) {
		case "setriskyallowed":
			value, _, ok := p.firstArgument(open)
			allowed, isBool := value.(bool)
			if !ok || !isBool {
				result.Warnings = append(result.Warnings, "setRiskyAllowed argument is not a literal boolean; ignored")
				continue
			}
			result.Config.AllowRisky = allowed
		case "setrules":
			arr, err := p.rulesArray(open)
			if err != nil {
				return nil, err
			}
			if arr.open < 0 {
				result.Warnings = append(result.Warnings, "setRules argument is not a literal array; ignored")
				continue
			}
			foundRules = true
			if err := p.convertRules(arr, registry, result); err != nil {
				return nil, err
			}
		}
	}

	if !foundRules {
		result.Warnings = append(result.Warnings, "no setRules call with a literal array found")
	}

	for _, id := range result.Converted {
		rc := result.Config.Rules[id]
		f, ok := registry.GetByID(id)
		if ok && f.IsRisky() && rc.Enabled != nil && *rc.Enabled && !result.Config.AllowRisky {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s is risky; set allow_risky: true to apply its fixes", id))
		}
	}

	return result, nil
}

// GenerateMigrationHeader returns the comment header for a migrated config.
func GenerateMigrationHeader(sourcePath string) string {
	return "# gophpfix configuration\n# Migrated from " + sourcePath
}

func hasOpenTag(content []byte) bool {
	trimmed := strings.TrimLeft(string(content), " \t\r\n")
	return strings.HasPrefix(trimmed, "<?php") || strings.HasPrefix(trimmed, "<?=")
}

// span is a bracketed literal: open and closeAt are the delimiter slots.
type span struct {
	open    int
	closeAt int
}

type cfgParser struct {
	tokens *phptoken.Tokens
}

// methodCall matches "-> name (" at i and returns the name and the "(" slot.
func (p *cfgParser) methodCall(i int) (string, int, bool) {
	if !p.tokens.At(i).Is(phptoken.KindObjectOp) {
		return "", 0, false
	}
	nameIdx, ok := p.tokens.NextMeaningful(i)
	if !ok || !p.tokens.At(nameIdx).Is(phptoken.KindIdentifier) {
		return "", 0, false
	}
	open, ok := p.tokens.NextMeaningful(nameIdx)
	if !ok || !p.tokens.At(open).IsChar('(') {
		return "", 0, false
	}
	return p.tokens.At(nameIdx).Text, open, true
}

// firstArgument decodes the literal right after the "(" at open.
func (p *cfgParser) firstArgument(open int) (any, int, bool) {
	start, ok := p.tokens.NextMeaningful(open)
	if !ok {
		return nil, 0, false
	}
	return p.literal(start)
}

// rulesArray locates the array passed to setRules, following a single
// variable back to its last literal assignment before the call. A span with
// open -1 means no literal array was found.
func (p *cfgParser) rulesArray(open int) (span, error) {
	start, ok := p.tokens.NextMeaningful(open)
	if !ok {
		return span{open: -1}, nil
	}

	if p.tokens.At(start).Is(phptoken.KindVariable) {
		assigned, found := p.assignment(p.tokens.At(start), start)
		if !found {
			return span{open: -1}, nil
		}
		start = assigned
	}

	arr, ok, err := p.arrayAt(start)
	if err != nil || !ok {
		return span{open: -1}, err
	}
	return arr, nil
}

// assignment finds the last "$var = <value>" before limit and returns the
// value's first slot.
func (p *cfgParser) assignment(variable phptoken.Token, limit int) (int, bool) {
	for i := limit - 1; i >= 0; i-- {
		if !p.tokens.At(i).Equals(variable) {
			continue
		}
		eq, ok := p.tokens.NextMeaningful(i)
		if !ok || !p.tokens.At(eq).IsChar('=') {
			continue
		}
		value, ok := p.tokens.NextMeaningful(eq)
		if ok {
			return value, true
		}
	}
	return 0, false
}

// arrayAt recognizes "[ ... ]" and "array( ... )" starting at i.
func (p *cfgParser) arrayAt(i int) (span, bool, error) {
	tok := p.tokens.At(i)

	open := -1
	switch {
	case tok.IsChar('['):
		open = i
	case tok.Is(phptoken.KindKeyword) && strings.EqualFold(tok.Text, "array"):
		next, ok := p.tokens.NextMeaningful(i)
		if ok && p.tokens.At(next).IsChar('(') {
			open = next
		}
	}
	if open < 0 {
		return span{}, false, nil
	}

	closeAt, err := p.tokens.MatchingBracket(open)
	if err != nil {
		return span{}, false, fmt.Errorf("array literal: %w", err)
	}
	return span{open: open, closeAt: closeAt}, true, nil
}

// entry is one comma-separated element of an array literal.
type entry struct {
	start int
	end   int
	arrow int // slot of "=>", or -1
}

func (p *cfgParser) entries(arr span) ([]entry, error) {
	var result []entry
	start := arr.open + 1
	arrow := -1

	flush := func(end int) {
		if first, ok := p.tokens.NextMeaningful(start - 1); ok && first <= end {
			result = append(result, entry{start: first, end: end, arrow: arrow})
		}
	}

	for i := arr.open + 1; i < arr.closeAt; i++ {
		tok := p.tokens.At(i)
		switch {
		case p.tokens.IsOpenBracket(i):
			end, err := p.tokens.MatchingBracket(i)
			if err != nil {
				return nil, fmt.Errorf("array literal: %w", err)
			}
			i = end
		case tok.Is(phptoken.KindOperator) && tok.Text == "=>":
			arrow = i
		case tok.IsChar(','):
			flush(i - 1)
			start = i + 1
			arrow = -1
		}
	}
	flush(arr.closeAt - 1)

	return result, nil
}

func (p *cfgParser) convertRules(arr span, registry *fixer.Registry, result *MigrationResult) error {
	entries, err := p.entries(arr)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.arrow < 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule entry %q has no name; skipped", p.text(e.start, e.end)))
			continue
		}

		key, keyEnd, ok := p.literal(e.start)
		name, isString := key.(string)
		if !ok || !isString || p.after(keyEnd) != e.arrow {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule name %q is not a string literal; skipped", p.text(e.start, e.arrow-1)))
			continue
		}

		if strings.HasPrefix(name, "@") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule set %q has no gophpfix equivalent; enable its fixers individually", name))
			continue
		}

		id, _, found := registry.Resolve(name)
		if !found {
			result.Warnings = append(result.Warnings, fmt.Sprintf("no gophpfix fixer for %q; skipped", name))
			continue
		}

		valueStart, ok := p.tokens.NextMeaningful(e.arrow)
		if !ok || valueStart > e.end {
			result.Warnings = append(result.Warnings, fmt.Sprintf("rule %q has no value; skipped", name))
			continue
		}
		value, valueEnd, ok := p.literal(valueStart)
		if !ok || p.after(valueEnd) <= e.end {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule %q value is not a literal; skipped", name))
			continue
		}

		rc, ok := ruleConfigFromValue(value)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule %q value must be a boolean or an array; skipped", name))
			continue
		}

		if _, seen := result.Config.Rules[id]; !seen {
			result.Converted = append(result.Converted, id)
		}
		result.Config.Rules[id] = rc
	}

	return nil
}

func ruleConfigFromValue(value any) (config.RuleConfig, bool) {
	enabled := true
	switch v := value.(type) {
	case bool:
		enabled = v
		return config.RuleConfig{Enabled: &enabled}, true
	case map[string]any:
		rc := config.RuleConfig{Enabled: &enabled}
		if len(v) > 0 {
			rc.Options = v
		}
		return rc, true
	case []any:
		if len(v) == 0 {
			return config.RuleConfig{Enabled: &enabled}, true
		}
	}
	return config.RuleConfig{}, false
}

// literal decodes the scalar or array literal starting at i. It returns the
// value and the last slot it consumed.
func (p *cfgParser) literal(i int) (any, int, bool) {
	tok := p.tokens.At(i)

	switch tok.Kind {
	case phptoken.KindString:
		s, ok := unquote(tok.Text)
		return s, i, ok
	case phptoken.KindIdentifier:
		switch strings.ToLower(tok.Text) {
		case "true":
			return true, i, true
		case "false":
			return false, i, true
		case "null":
			return nil, i, true
		}
		return nil, i, false
	case phptoken.KindLNumber, phptoken.KindDNumber:
		n, ok := parseNumber(tok)
		return n, i, ok
	case phptoken.KindChar:
		if tok.IsChar('-') {
			next, ok := p.tokens.NextMeaningful(i)
			if !ok {
				return nil, i, false
			}
			switch n, _, ok := p.literal(next); v := n.(type) {
			case int64:
				return -v, next, ok
			case float64:
				return -v, next, ok
			}
			return nil, i, false
		}
	}

	arr, ok, err := p.arrayAt(i)
	if err != nil || !ok {
		return nil, i, false
	}
	value, ok := p.arrayValue(arr)
	return value, arr.closeAt, ok
}

// arrayValue decodes a literal array into a map when any entry is keyed and
// into a list otherwise.
func (p *cfgParser) arrayValue(arr span) (any, bool) {
	entries, err := p.entries(arr)
	if err != nil {
		return nil, false
	}

	keyed := false
	for _, e := range entries {
		if e.arrow >= 0 {
			keyed = true
			break
		}
	}

	list := make([]any, 0, len(entries))
	fields := make(map[string]any, len(entries))

	for idx, e := range entries {
		valueStart := e.start
		key := strconv.Itoa(idx)

		if e.arrow >= 0 {
			k, keyEnd, ok := p.literal(e.start)
			if !ok || p.after(keyEnd) != e.arrow {
				return nil, false
			}
			key = fmt.Sprint(k)
			next, ok := p.tokens.NextMeaningful(e.arrow)
			if !ok || next > e.end {
				return nil, false
			}
			valueStart = next
		}

		value, valueEnd, ok := p.literal(valueStart)
		if !ok || p.after(valueEnd) <= e.end {
			return nil, false
		}

		if keyed {
			fields[key] = value
		} else {
			list = append(list, value)
		}
	}

	if keyed {
		return fields, true
	}
	return list, true
}

// after returns the next meaningful slot after i, or the sequence length.
func (p *cfgParser) after(i int) int {
	next, ok := p.tokens.NextMeaningful(i)
	if !ok {
		return p.tokens.Len()
	}
	return next
}

func (p *cfgParser) text(start, end int) string {
	var sb strings.Builder
	for i := start; i <= end && i < p.tokens.Len(); i++ {
		sb.WriteString(p.tokens.At(i).Text)
	}
	return strings.TrimSpace(sb.String())
}

func parseNumber(tok phptoken.Token) (any, bool) {
	text := strings.ReplaceAll(tok.Text, "_", "")
	if tok.Kind == phptoken.KindDNumber {
		f, err := strconv.ParseFloat(text, 64)
		return f, err == nil
	}
	// PHP octal literals may omit the "o" that Go's base prefix requires.
	if len(text) > 1 && text[0] == '0' && text[1] >= '0' && text[1] <= '9' {
		text = "0o" + text[1:]
	}
	n, err := strconv.ParseInt(text, 0, 64)
	return n, err == nil
}

// unquote decodes a PHP single- or double-quoted string literal. Double
// quoted strings containing interpolation are rejected.
func unquote(text string) (string, bool) {
	if len(text) < 2 || text[0] != text[len(text)-1] {
		return "", false
	}
	quote := text[0]
	body := text[1 : len(text)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote == '"' && c == '$' {
			return "", false
		}
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}

		next := body[i+1]
		switch {
		case quote == '\'' && (next == '\'' || next == '\\'):
			sb.WriteByte(next)
			i++
		case quote == '"':
			if r, ok := doubleQuoteEscapes[next]; ok {
				sb.WriteByte(r)
				i++
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), quote == '\'' || quote == '"'
}

//nolint:gochecknoglobals // Read-only lookup table.
var doubleQuoteEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'v':  '\v',
	'e':  0x1b,
	'f':  '\f',
	'\\': '\\',
	'$':  '$',
	'"':  '"',
}
