package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/analyzer"
	"github.com/yaklabco/gophpfix/pkg/parser/php"
	"github.com/yaklabco/gophpfix/pkg/phptoken"
)

func TestPHPUnitClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  string
		count int
	}{
		{name: "name ends in Test", code: "class FooTest extends Base {}", count: 1},
		{name: "name ends in TestCase", code: "final class FooTestCase extends Base {}", count: 1},
		{name: "parent ends in TestCase", code: "class Foo extends \\PHPUnit\\Framework\\TestCase {}", count: 1},
		{name: "legacy parent", code: "final class MyTest extends \\PHPUnit_Framework_TestCase {}", count: 1},
		{name: "interface ends in TestInterface", code: "class Foo extends Base implements FooTestInterface {}", count: 1},
		{name: "no extends", code: "class FooTest {}", count: 0},
		{name: "plain class", code: "class Foo extends Bar implements Baz {}", count: 0},
		{name: "anonymous class", code: "$a = new class extends TestCase {};", count: 0},
		{name: "class constant", code: "$a = FooTest::class;", count: 0},
		{name: "two classes", code: "class ATest extends X {} class B {} class CTest extends Y { function f() { if (1) {} } }", count: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := lex(t, testCase.code)
			regions, err := analyzer.PHPUnitClasses(tokens)
			require.NoError(t, err)
			require.Len(t, regions, testCase.count)

			for _, region := range regions {
				assert.True(t, tokens.At(region.Start).IsChar('{'))
				assert.True(t, tokens.At(region.End).IsChar('}'))
			}
		})
	}
}

func TestPHPUnitClasses_LastClassFirst(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "class ATest extends X { } class BTest extends X { }")
	regions, err := analyzer.PHPUnitClasses(tokens)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.Greater(t, regions[0].Start, regions[1].End)
	assert.Equal(t, nth(t, tokens, "{", 1), regions[0].Start)
	assert.Equal(t, nth(t, tokens, "}", 0), regions[1].End)
}

func TestPHPUnitClasses_FileWithOpenTag(t *testing.T) {
	t.Parallel()

	code := "<?php\nnamespace App;\n\nfinal class MyTest extends \\PHPUnit_Framework_TestCase\n{\n}\n"
	tokens := phptoken.NewTokens(php.Lex([]byte(code), false))

	regions, err := analyzer.PHPUnitClasses(tokens)
	require.NoError(t, err)
	require.Len(t, regions, 1)
}

func TestPHPUnitClasses_Unbalanced(t *testing.T) {
	t.Parallel()

	tokens := lex(t, "class FooTest extends TestCase { function f() {")
	_, err := analyzer.PHPUnitClasses(tokens)

	var malformed *phptoken.MalformedInputError
	require.ErrorAs(t, err, &malformed)
}
