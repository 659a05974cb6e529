package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fix"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/reporter"
	"github.com/yaklabco/gophpfix/pkg/runner"
	"github.com/yaklabco/gophpfix/pkg/source"
)

const (
	original = "<?php\nif ($a) {\n    $this->addToAssertionCount(1);\n    return;\n}\n"
	fixed    = "<?php\nif ($a) {\n    $this->expectNotToPerformAssertions();\n    return;\n}\n"
)

// sampleResult builds a result with one fixed file, one clean file and one
// file that failed to read.
func sampleResult() *runner.Result {
	name := "expectNotToPerformAssertions"
	nameStart := len("<?php\nif ($a) {\n    $this->")
	argStart := nameStart + len("addToAssertionCount(")

	diag := fixer.Diagnostic{
		RuleID:      "PHPUNIT001",
		RuleName:    "php-unit-assertion-count",
		Message:     "Use expectNotToPerformAssertions() instead of addToAssertionCount(1)",
		Severity:    config.SeverityWarning,
		FilePath:    "/work/tests/FooTest.php",
		StartLine:   3,
		StartColumn: 12,
		EndLine:     3,
		EndColumn:   32,
		Suggestion:  "$this->expectNotToPerformAssertions()",
		FixEdits: []fix.TextEdit{
			{StartOffset: nameStart, EndOffset: nameStart + len("addToAssertionCount"), NewText: name},
			{StartOffset: argStart, EndOffset: argStart + 1, NewText: ""},
		},
	}

	fixedFile := &fixer.PipelineResult{
		Path: "/work/tests/FooTest.php",
		FileResult: &fixer.FileResult{
			File:        source.NewFile("/work/tests/FooTest.php", []byte(original)),
			Units:       1,
			Diagnostics: []fixer.Diagnostic{diag},
			RuleErrors:  map[string]error{},
		},
		Modified:          true,
		Written:           true,
		FixPasses:         1,
		TotalEditsApplied: 2,
		Diff:              fix.GenerateDiff("/work/tests/FooTest.php", []byte(original), []byte(fixed)),
	}
	cleanFile := &fixer.PipelineResult{
		Path: "/work/tests/BarTest.php",
		FileResult: &fixer.FileResult{
			File:       source.NewFile("/work/tests/BarTest.php", []byte("<?php\n")),
			Units:      1,
			RuleErrors: map[string]error{},
		},
	}

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/tests/BarTest.php", Result: cleanFile},
			{Path: "/work/tests/FooTest.php", Result: fixedFile},
			{Path: "/work/tests/Gone.php", Error: errors.New("file not found")},
		},
		Stats: runner.Stats{
			FilesDiscovered:       3,
			FilesProcessed:        2,
			FilesErrored:          1,
			FilesWithIssues:       1,
			FilesModified:         1,
			DiagnosticsTotal:      1,
			DiagnosticsFixable:    1,
			DiagnosticsBySeverity: map[config.Severity]int{config.SeverityWarning: 1},
			EditsApplied:          2,
		},
	}
}

func newReporter(t *testing.T, format reporter.Format) (reporter.Reporter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = "/work"
	opts.ToolVersion = "1.2.3"

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep, &buf
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{input: "", want: reporter.FormatText},
		{input: "text", want: reporter.FormatText},
		{input: "json", want: reporter.FormatJSON},
		{input: "sarif", want: reporter.FormatSARIF},
		{input: "diff", want: reporter.FormatDiff},
		{input: "summary", want: reporter.FormatSummary},
		{input: "table", wantErr: true},
		{input: "xml", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(testCase.input)
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}

	for _, format := range reporter.Formats() {
		assert.True(t, format.IsValid(), format)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "tests/FooTest.php (1 issue)")
	assert.Contains(t, out, "tests/FooTest.php:3:12  warning")
	assert.Contains(t, out, "(php-unit-assertion-count)")
	assert.Contains(t, out, "        $this->addToAssertionCount(1);\n")
	assert.Contains(t, out, "tests/Gone.php: error: file not found")
	assert.NotContains(t, out, "BarTest.php")
	assert.Contains(t, out, "1 issue (1 warning) in 1 file, 1 fixable, 2 edits fixed in 1 file, 1 file failed\n")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No files to check.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Files, 3)
	assert.Equal(t, "tests/FooTest.php", out.Files[1].Path)
	assert.True(t, out.Files[1].Written)
	require.Len(t, out.Files[1].Diagnostics, 1)

	diag := out.Files[1].Diagnostics[0]
	assert.Equal(t, "PHPUNIT001", diag.RuleID)
	assert.Equal(t, "warning", diag.Severity)
	assert.True(t, diag.Fixable)
	require.Len(t, diag.Fixes, 2)
	assert.Equal(t, "expectNotToPerformAssertions", diag.Fixes[0].NewText)
	assert.Empty(t, diag.Fixes[1].NewText)

	assert.Equal(t, "file not found", out.Files[2].Error)
	assert.Equal(t, 1, out.Summary.TotalIssues)
	assert.Equal(t, 2, out.Summary.EditsApplied)
	assert.Equal(t, map[string]int{"warning": 1}, out.Summary.BySeverity)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatSARIF)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)
	run := out.Runs[0]
	assert.Equal(t, "gophpfix", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Tool.Driver.Rules, 1)
	assert.Equal(t, "PHPUNIT001", run.Tool.Driver.Rules[0].ID)

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "warning", res.Level)
	assert.Equal(t, "tests/FooTest.php", res.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 3, res.Locations[0].PhysicalLocation.Region.StartLine)

	require.Len(t, res.Fixes, 1)
	replacements := res.Fixes[0].ArtifactChanges[0].Replacements
	require.Len(t, replacements, 2)
	assert.Equal(t, reporter.SARIFRegion{StartLine: 3, StartColumn: 12, EndLine: 3, EndColumn: 31},
		replacements[0].DeletedRegion)
	assert.Equal(t, "expectNotToPerformAssertions", replacements[0].InsertedContent.Text)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatDiff)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/tests/FooTest.php b/tests/FooTest.php\n--- a/tests/FooTest.php\n+++ b/tests/FooTest.php\n")
	assert.Contains(t, out, "-    $this->addToAssertionCount(1);\n")
	assert.Contains(t, out, "+    $this->expectNotToPerformAssertions();\n")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)\n")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatSummary)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "Fixers\n")
	assert.Contains(t, out, "php-unit-assertion-count")
	assert.Contains(t, out, "Edits applied:     2\n")
	assert.Contains(t, out, "Completed with errors")
}

func TestCountByRule(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	extra := result.Files[0].Result
	extra.Diagnostics = []fixer.Diagnostic{
		{RuleID: "A001", RuleName: "a"},
		{RuleID: "PHPUNIT001", RuleName: "php-unit-assertion-count"},
		{RuleID: "PHPUNIT001", RuleName: "php-unit-assertion-count"},
	}

	counts := reporter.CountByRule(result)
	require.Len(t, counts, 2)
	assert.Equal(t, reporter.RuleCount{
		RuleID: "PHPUNIT001", RuleName: "php-unit-assertion-count", Issues: 3, Fixable: 1, Files: 2,
	}, counts[0])
	assert.Equal(t, "A001", counts[1].RuleID)
	assert.Nil(t, reporter.CountByRule(nil))
}
