package configloader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertPHPCSFixerSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		risky    bool
		enabled  *bool
		options  map[string]any
		warnings []string
	}{
		{
			name: "short array",
			source: `<?php
return (new PhpCsFixer\Config())
    ->setRiskyAllowed(true)
    ->setRules([
        '@Symfony' => true,
        'php_unit_assertion_count' => true, // keep
        'array_syntax' => ['syntax' => 'short'],
    ]);
`,
			risky:   true,
			enabled: boolPtr(true),
			warnings: []string{
				`rule set "@Symfony" has no gophpfix equivalent; enable its fixers individually`,
				`no gophpfix fixer for "array_syntax"; skipped`,
			},
		},
		{
			name: "long array disabled",
			source: `<?php
return PhpCsFixer\Config::create()
    ->setRules(array(
        "php_unit_assertion_count" => false,
    ));
`,
			enabled: boolPtr(false),
		},
		{
			name: "rules through variable",
			source: `<?php
$rules = ['php-unit-assertion-count' => ['target' => 'newest', 'depth' => 2, 'flags' => ['a', 'b']]];
$config = new PhpCsFixer\Config();
return $config->setRules($rules)->setRiskyAllowed(false);
`,
			enabled: boolPtr(true),
			options: map[string]any{"target": "newest", "depth": int64(2), "flags": []any{"a", "b"}},
			warnings: []string{
				"PHPUNIT001 is risky; set allow_risky: true to apply its fixes",
			},
		},
		{
			name: "non-literal value",
			source: `<?php
return (new PhpCsFixer\Config())->setRules(['php_unit_assertion_count' => $enabled]);
`,
			warnings: []string{`rule "php_unit_assertion_count" value is not a literal; skipped`},
		},
		{
			name:     "no rules",
			source:   "<?php\nreturn new PhpCsFixer\\Config();\n",
			warnings: []string{"no setRules call with a literal array found"},
		},
		{
			name: "interpolated name",
			source: `<?php
return (new PhpCsFixer\Config())->setRules(["php_unit_$name" => true]);
`,
			warnings: []string{`rule name "\"php_unit_$name\"" is not a string literal; skipped`},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := ConvertPHPCSFixerSource([]byte(testCase.source), newRegistry())
			require.NoError(t, err)

			assert.Equal(t, testCase.risky, result.Config.AllowRisky)
			assert.Equal(t, testCase.warnings, result.Warnings)

			rc, ok := result.Config.Rules["PHPUNIT001"]
			if testCase.enabled == nil {
				assert.False(t, ok)
				assert.Empty(t, result.Converted)
				return
			}
			require.True(t, ok)
			assert.Equal(t, []string{"PHPUNIT001"}, result.Converted)
			assert.Equal(t, *testCase.enabled, *rc.Enabled)
			assert.Equal(t, testCase.options, rc.Options)
		})
	}
}

func TestConvertPHPCSFixerSource_Unbalanced(t *testing.T) {
	t.Parallel()

	_, err := ConvertPHPCSFixerSource([]byte("<?php\n$c->setRules(['a' => true,"), newRegistry())
	require.Error(t, err)
}

func TestParseLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   any
	}{
		{source: `'it\'s'`, want: "it's"},
		{source: `"tab\there"`, want: "tab\there"},
		{source: `0x1F`, want: int64(31)},
		{source: `0755`, want: int64(0o755)},
		{source: `1_000`, want: int64(1000)},
		{source: `-3`, want: int64(-3)},
		{source: `1.5`, want: 1.5},
		{source: `NULL`, want: nil},
		{source: `[1, 'x' => true]`, want: map[string]any{"0": int64(1), "x": true}},
	}

	for _, testCase := range tests {
		t.Run(testCase.source, func(t *testing.T) {
			t.Parallel()

			result, err := ConvertPHPCSFixerSource(
				[]byte("$c->setRules(['php_unit_assertion_count' => ['v' => "+testCase.source+"]]);"),
				newRegistry(),
			)
			require.NoError(t, err)
			require.Empty(t, result.Warnings)
			assert.Equal(t, testCase.want, result.Config.Rules["PHPUNIT001"].Options["v"])
		})
	}
}

func TestConvertPHPCSFixerConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, ".php-cs-fixer.dist.php",
		"<?php\nreturn (new PhpCsFixer\\Config())->setRules(['php_unit_assertion_count' => true]);\n")

	result, err := ConvertPHPCSFixerConfig(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)

	_, err = ConvertPHPCSFixerConfig(context.Background(), filepath.Join(dir, "missing.php"))
	require.Error(t, err)
}

func TestFindPHPCSFixerConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Empty(t, FindPHPCSFixerConfig(dir))

	legacy := writeFile(t, dir, ".php_cs.dist", "<?php\n")
	assert.Equal(t, legacy, FindPHPCSFixerConfig(dir))

	current := writeFile(t, dir, ".php-cs-fixer.php", "<?php\n")
	assert.Equal(t, current, FindPHPCSFixerConfig(dir))
}
