package runner

import (
	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
)

// FileOutcome is the pipeline result or error for one path.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *fixer.PipelineResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesSkipped counts files left alone, for example because they
	// changed on disk while being processed.
	FilesSkipped int

	// FilesWithIssues counts files with at least one diagnostic.
	FilesWithIssues int

	// FilesModified counts files whose content was changed, on disk or,
	// in dry-run mode, in memory.
	FilesModified int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[config.Severity]int

	// EditsApplied is the number of edits applied across all passes.
	EditsApplied int

	// RuleErrors counts fixer failures across all units.
	RuleErrors int
}

// Result is the overall runner result.
type Result struct {
	// Files is ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any diagnostic has error severity or any
// file could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

func newResult(discovered int) *Result {
	return &Result{
		Files: make([]FileOutcome, 0, discovered),
		Stats: Stats{
			FilesDiscovered:       discovered,
			DiagnosticsBySeverity: make(map[config.Severity]int),
		},
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Modified && !pr.Skipped {
		r.Stats.FilesModified++
	}
	r.Stats.EditsApplied += pr.TotalEditsApplied

	if pr.FileResult == nil {
		return
	}
	r.Stats.RuleErrors += len(pr.RuleErrors)
	r.Stats.DiagnosticsTotal += len(pr.Diagnostics)
	r.Stats.DiagnosticsFixable += pr.FixableCount()
	if pr.HasIssues() {
		r.Stats.FilesWithIssues++
	}
	for _, diag := range pr.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}
