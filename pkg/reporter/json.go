package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult holds one file's results.
type JSONFileResult struct {
	Path        string            `json:"path"`
	Diagnostics []JSONDiagnostic  `json:"diagnostics"`
	Modified    bool              `json:"modified,omitempty"`
	Written     bool              `json:"written,omitempty"`
	Skipped     string            `json:"skipped,omitempty"`
	Error       string            `json:"error,omitempty"`
	RuleErrors  map[string]string `json:"ruleErrors,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID      string    `json:"ruleId"`
	RuleName    string    `json:"ruleName"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	StartLine   int       `json:"startLine"`
	StartColumn int       `json:"startColumn"`
	EndLine     int       `json:"endLine"`
	EndColumn   int       `json:"endColumn"`
	Suggestion  string    `json:"suggestion,omitempty"`
	Fixable     bool      `json:"fixable"`
	Fixes       []JSONFix `json:"fixes,omitempty"`
}

// JSONFix is one byte edit of a fix.
type JSONFix struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesModified   int            `json:"filesModified"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	Fixable         int            `json:"fixable"`
	EditsApplied    int            `json:"editsApplied"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter writes results as JSON.
type JSONReporter struct {
	opts Options
}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	return buffered(r.opts, func(bw *bufio.Writer) (int, error) {
		encoder := json.NewEncoder(bw)
		if !r.opts.Compact {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(output); err != nil {
			return 0, fmt.Errorf("encode JSON: %w", err)
		}
		return output.Summary.TotalIssues, nil
	})
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   []JSONFileResult{},
		Summary: JSONSummary{BySeverity: map[string]int{}},
	}
	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:    len(result.Files),
		FilesWithIssues: stats.FilesWithIssues,
		FilesModified:   stats.FilesModified,
		FilesErrored:    stats.FilesErrored,
		TotalIssues:     stats.DiagnosticsTotal,
		Fixable:         stats.DiagnosticsFixable,
		EditsApplied:    stats.EditsApplied,
		BySeverity:      make(map[string]int, len(stats.DiagnosticsBySeverity)),
	}
	for sev, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[string(sev)] = n
	}

	for _, outcome := range result.Files {
		output.Files = append(output.Files, r.fileResult(outcome))
	}
	return output
}

func (r *JSONReporter) fileResult(outcome runner.FileOutcome) JSONFileResult {
	file := JSONFileResult{
		Path:        r.opts.displayPath(outcome.Path),
		Diagnostics: []JSONDiagnostic{},
	}
	if outcome.Error != nil {
		file.Error = outcome.Error.Error()
		return file
	}

	pr := outcome.Result
	if pr == nil {
		return file
	}
	file.Modified = pr.Modified
	file.Written = pr.Written
	if pr.Skipped {
		file.Skipped = pr.SkipReason
	}
	if pr.FileResult == nil {
		return file
	}

	for id, err := range pr.RuleErrors {
		if file.RuleErrors == nil {
			file.RuleErrors = make(map[string]string)
		}
		file.RuleErrors[id] = err.Error()
	}

	for _, diag := range pr.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		jd := JSONDiagnostic{
			RuleID:      diag.RuleID,
			RuleName:    diag.RuleName,
			Severity:    string(severity),
			Message:     diag.Message,
			StartLine:   diag.StartLine,
			StartColumn: diag.StartColumn,
			EndLine:     diag.EndLine,
			EndColumn:   diag.EndColumn,
			Suggestion:  diag.Suggestion,
			Fixable:     diag.HasFix(),
		}
		for _, edit := range diag.FixEdits {
			jd.Fixes = append(jd.Fixes, JSONFix{
				StartOffset: edit.StartOffset,
				EndOffset:   edit.EndOffset,
				NewText:     edit.NewText,
			})
		}
		file.Diagnostics = append(file.Diagnostics, jd)
	}
	return file
}
