package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/internal/cli"
)

const testInput = `<?php
final class MyTest extends \PHPUnit_Framework_TestCase
{
    public function testFix(): void
    {
        if (foo()) {
            $this->addToAssertionCount(1);

            return;
        }

        static::assertSame(bar());
    }
}
`

const testFixed = `<?php
final class MyTest extends \PHPUnit_Framework_TestCase
{
    public function testFix(): void
    {
        if (foo()) {
            $this->expectNotToPerformAssertions();

            return;
        }

        static::assertSame(bar());
    }
}
`

// execute runs the CLI against dir with isolated configuration.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-01"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--isolated", "--color", "never", "-C", dir}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFixRewritesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tests", "MyTest.php")
	writeFile(t, path, testInput)

	_, err := execute(t, dir, "fix", "--allow-risky")
	require.NoError(t, err)

	assert.Equal(t, testFixed, readFile(t, path))
	assert.Equal(t, testInput, readFile(t, path+".gophpfix.bak"))

	// A second run is a fixed point.
	_, err = execute(t, dir, "check", "--allow-risky")
	require.NoError(t, err)
}

func TestFixNoBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "MyTest.php")
	writeFile(t, path, testInput)

	_, err := execute(t, dir, "fix", "--allow-risky", "--no-backups")
	require.NoError(t, err)

	assert.Equal(t, testFixed, readFile(t, path))
	assert.NoFileExists(t, path+".gophpfix.bak")
}

func TestFixRiskyNeedsOptIn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "MyTest.php")
	writeFile(t, path, testInput)

	_, err := execute(t, dir, "fix")
	require.NoError(t, err)

	assert.Equal(t, testInput, readFile(t, path))
}

func TestFixDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "MyTest.php")
	writeFile(t, path, testInput)

	out, err := execute(t, dir, "fix", "--allow-risky", "--dry-run", "--format", "diff")
	require.NoError(t, err)

	assert.Contains(t, out, "-            $this->addToAssertionCount(1);")
	assert.Contains(t, out, "+            $this->expectNotToPerformAssertions();")
	assert.Equal(t, testInput, readFile(t, path))
}

func TestCheckExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantCode int
	}{
		{name: "fixable", content: testInput, wantCode: cli.ExitFixable},
		{name: "clean", content: testFixed, wantCode: cli.ExitSuccess},
		{name: "not a test class", content: strings.ReplaceAll(testInput, "MyTest extends \\PHPUnit_Framework_TestCase", "Service"), wantCode: cli.ExitSuccess},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "MyTest.php")
			writeFile(t, path, testCase.content)

			_, err := execute(t, dir, "check", "--allow-risky")

			assert.Equal(t, testCase.wantCode, cli.ExitCode(err))
			if testCase.wantCode == cli.ExitFixable {
				assert.ErrorIs(t, err, cli.ErrFixableIssues)
				assert.True(t, cli.IsSignal(err))
			}
			assert.Equal(t, testCase.content, readFile(t, path))
		})
	}
}

func TestFixerFailureExitCode(t *testing.T) {
	t.Parallel()

	// The class body is never closed.
	content := strings.TrimSuffix(testInput, "}\n")

	for _, command := range []string{"fix", "check"} {
		t.Run(command, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "MyTest.php")
			writeFile(t, path, content)

			_, err := execute(t, dir, command, "--allow-risky", "--no-context")

			require.ErrorIs(t, err, cli.ErrFixerFailed)
			assert.Equal(t, cli.ExitInternalError, cli.ExitCode(err))
			assert.True(t, cli.IsSignal(err))
			assert.Equal(t, content, readFile(t, path))
		})
	}
}

func TestFixMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	writeFile(t, path, "# Example\n\n```php\n"+testInput+"```\n")

	_, err := execute(t, dir, "fix", "--allow-risky", "--markdown", "--no-backups")
	require.NoError(t, err)

	assert.Equal(t, "# Example\n\n```php\n"+testFixed+"```\n", readFile(t, path))
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"fix", "--nope"}},
		{name: "bad format", args: []string{"check", "--format", "xml"}},
		{name: "unknown fixer", args: []string{"fix", "--enable", "NOPE001"}},
		{name: "describe without fixer", args: []string{"describe"}},
		{name: "describe unknown fixer", args: []string{"describe", "nope"}},
		{name: "rules bad format", args: []string{"rules", "--format", "xml"}},
		{name: "version with args", args: []string{"version", "extra"}},
		{name: "init bad format", args: []string{"init", "--format", "toml"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, t.TempDir(), testCase.args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
		})
	}
}

func TestConfigErrorExitCode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gophpfix.yml"), "severity_default: loud\n")

	_, err := execute(t, dir, "check")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestProjectConfigAllowsRisky(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gophpfix.yml"), "allow_risky: true\nbackups:\n  enabled: false\n")
	path := filepath.Join(dir, "MyTest.php")
	writeFile(t, path, testInput)

	_, err := execute(t, dir, "fix")
	require.NoError(t, err)

	assert.Equal(t, testFixed, readFile(t, path))
}

func TestRulesJSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, t.TempDir(), "rules", "--format", "json")
	require.NoError(t, err)

	var rules []struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Aliases []string `json:"aliases"`
		Risky   bool     `json:"risky"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rules))

	require.NotEmpty(t, rules)
	assert.Equal(t, "PHPUNIT001", rules[0].ID)
	assert.Equal(t, "php-unit-assertion-count", rules[0].Name)
	assert.Contains(t, rules[0].Aliases, "php_unit_assertion_count")
	assert.True(t, rules[0].Risky)
}

func TestRulesText(t *testing.T) {
	t.Parallel()

	out, err := execute(t, t.TempDir(), "rules", "--rule-format", "id")
	require.NoError(t, err)

	assert.Contains(t, out, "PHPUNIT001")
	assert.Contains(t, out, "risky=true")
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"PHPUNIT001", "phpunit001", "php-unit-assertion-count", "php_unit_assertion_count"} {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, t.TempDir(), "describe", key)
			require.NoError(t, err)

			assert.Contains(t, out, "PHPUNIT001 php-unit-assertion-count")
			assert.Contains(t, out, "Example #1")
			assert.Contains(t, out, "+")
			assert.Contains(t, out, "expectNotToPerformAssertions")
		})
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)

	assert.Contains(t, out, "gophpfix")
	assert.Contains(t, out, "version=1.2.3")
	assert.Contains(t, out, "commit=abc1234")
}

func TestInit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		file     string
		contains string
	}{
		{name: "yaml", args: []string{"init"}, file: ".gophpfix.yml", contains: "allow_risky"},
		{name: "full", args: []string{"init", "--full"}, file: ".gophpfix.yml", contains: "PHPUNIT001"},
		{name: "json", args: []string{"init", "--format", "json"}, file: ".gophpfix.json", contains: `"allow_risky"`},
		{name: "custom output", args: []string{"init", "-o", "conf/gophpfix.yml"}, file: "conf/gophpfix.yml", contains: "allow_risky"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			_, err := execute(t, dir, testCase.args...)
			require.NoError(t, err)

			assert.Contains(t, readFile(t, filepath.Join(dir, testCase.file)), testCase.contains)
		})
	}
}

func TestInitExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gophpfix.yml")
	writeFile(t, path, "allow_risky: true\n")

	_, err := execute(t, dir, "init")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
	assert.Equal(t, "allow_risky: true\n", readFile(t, path))

	_, err = execute(t, dir, "init", "--force")
	require.NoError(t, err)
	assert.NotEqual(t, "allow_risky: true\n", readFile(t, path))
}

func TestInitOutputIsLoadable(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"init", "--full"}, {"init", "--format", "json", "--full"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			_, err := execute(t, dir, args...)
			require.NoError(t, err)

			writeFile(t, filepath.Join(dir, "MyTest.php"), testFixed)
			_, err = execute(t, dir, "check")
			require.NoError(t, err)
		})
	}
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".php-cs-fixer.dist.php"), `<?php

$finder = PhpCsFixer\Finder::create()->in(__DIR__);

return (new PhpCsFixer\Config())
    ->setRiskyAllowed(true)
    ->setRules([
        '@PSR12' => true,
        'php_unit_assertion_count' => true,
    ])
    ->setFinder($finder);
`)

	_, err := execute(t, dir, "migrate")
	require.NoError(t, err)

	migrated := readFile(t, filepath.Join(dir, ".gophpfix.yml"))
	assert.Contains(t, migrated, ".php-cs-fixer.dist.php")
	assert.Contains(t, migrated, "PHPUNIT001")
	assert.Contains(t, migrated, "allow_risky: true")

	// The migrated config applies the fixer.
	path := filepath.Join(dir, "MyTest.php")
	writeFile(t, path, testInput)
	_, err = execute(t, dir, "fix", "--no-backups")
	require.NoError(t, err)
	assert.Equal(t, testFixed, readFile(t, path))

	// Without --force the output is kept.
	_, err = execute(t, dir, "migrate")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestMigrateErrors(t *testing.T) {
	t.Parallel()

	t.Run("nothing to migrate", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, t.TempDir(), "migrate")
		require.Error(t, err)
		assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, t.TempDir(), "migrate", "missing.php")
		require.Error(t, err)
		assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
	})
}

func TestHelp(t *testing.T) {
	t.Parallel()

	out, err := execute(t, t.TempDir(), "--help")
	require.NoError(t, err)

	for _, want := range []string{"Usage:", "Commands:", "fix", "check", "describe", "migrate", "Flags:", "--isolated"} {
		assert.Contains(t, out, want)
	}

	out, err = execute(t, t.TempDir(), "fix", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--allow-risky")
	assert.Contains(t, out, "Global Flags:")
}
