// Package langdetect decides whether content is PHP. It uses go-enry for
// shebang and classifier based detection, backed by a few patterns that are
// highly indicative of PHP and of the languages most often confused with it.
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language names returned by Detect.
const (
	LangPHP        = "php"
	LangHTML       = "html"
	LangJavaScript = "javascript"
	LangBash       = "bash"
	LangText       = "text"
)

//nolint:gochecknoglobals // Compiled once.
var (
	phpVariableCall = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*\s*(->|::)`)
	phpFunctionDecl = regexp.MustCompile(`(?m)^\s*(public|protected|private|static|final|abstract)?\s*function\s+\w+\s*\(`)
	phpNamespace    = regexp.MustCompile(`(?m)^\s*(namespace|use)\s+[A-Za-z_\\][\w\\]*\s*;`)
)

// classifierCandidates are the languages a PHP snippet is commonly mistaken for.
//
//nolint:gochecknoglobals // Immutable candidate list.
var classifierCandidates = []string{"PHP", "Hack", "JavaScript", "Perl", "Shell", "HTML", "Java", "C"}

// Detect returns the detected language for content, or "text" when
// detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// IsPHP reports whether content looks like PHP.
func IsPHP(content []byte) bool {
	return Detect(content) == LangPHP
}

// IsPHPScript reports whether an extensionless file is a PHP script, judged
// by its name and its shebang line.
func IsPHPScript(filename string, content []byte) bool {
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang) == LangPHP
	}
	lang, _ := enry.GetLanguageByFilename(filename)
	return normalize(lang) == LangPHP
}

func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	lower := bytes.ToLower(trimmed)

	if bytes.HasPrefix(lower, []byte("<?php")) || bytes.HasPrefix(trimmed, []byte("<?=")) {
		return LangPHP
	}
	if bytes.Contains(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html")) {
		if bytes.Contains(lower, []byte("<?php")) {
			return LangPHP
		}
		return LangHTML
	}
	if phpVariableCall.Match(content) || phpNamespace.Match(content) {
		return LangPHP
	}
	if phpFunctionDecl.Match(content) && bytes.Contains(content, []byte("$")) {
		return LangPHP
	}

	return ""
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return LangBash
	case "Hack":
		return LangPHP
	default:
		return strings.ToLower(lang)
	}
}
