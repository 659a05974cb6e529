package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/parser/php"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

func lex(t *testing.T, code string) *phptoken.Tokens {
	t.Helper()
	return phptoken.NewTokens(php.Lex([]byte(code), true))
}

// nth returns the slot of the nth (0-based) token with the given text.
func nth(t *testing.T, tokens *phptoken.Tokens, text string, n int) int {
	t.Helper()
	for i := range tokens.Len() {
		if tokens.At(i).Text != text {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	require.Failf(t, "token not found", "%q", text)
	return -1
}
