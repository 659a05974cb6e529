package logging

// Keys for structured log fields.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldSource     = "source"

	// Run options.
	FieldFix        = "fix"
	FieldDryRun     = "dry_run"
	FieldAllowRisky = "allow_risky"
	FieldJobs       = "jobs"

	// Per-file processing.
	FieldRule   = "rule"
	FieldUnits  = "units"
	FieldPasses = "passes"
	FieldEdits  = "edits"
	FieldReason = "reason"

	// Fixer metadata.
	FieldSeverity    = "severity"
	FieldRisky       = "risky"
	FieldDescription = "description"
	FieldAliases     = "aliases"

	// Config migration.
	FieldInput  = "input"
	FieldOutput = "output"

	// Run statistics.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesModified    = "files_modified"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
