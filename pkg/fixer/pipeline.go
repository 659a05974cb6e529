package fixer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fix"
	"github.com/yaklabco/gophpfix/pkg/fsutil"
	"github.com/yaklabco/gophpfix/pkg/source"
)

// DefaultMaxFixPasses bounds the fix loop. Fixers reach a fixed point after
// one pass unless their edits conflicted.
const DefaultMaxFixPasses = 10

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTokenizeFailure indicates the file could not be tokenized.
	ErrTokenizeFailure = errors.New("tokenize failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds diagnostics from the first pass and edits from the
	// last one.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if the file content was changed.
	Modified bool

	// ModifiedContent is the new content (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode.
	Diff *fix.Diff

	// Skipped is true if the file was left alone, for example because it
	// changed on disk while being processed.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool

	// FixPasses is the number of passes that applied edits.
	FixPasses int

	// TotalEditsApplied is the total number of edits applied across passes.
	TotalEditsApplied int
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// Fix enables applying edits.
	Fix bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup configures backup behavior.
	Backup fsutil.BackupConfig

	// StrictRaceDetection uses hash comparison for modification detection.
	// When false, only mod time and size are checked.
	StrictRaceDetection bool

	// RetokenizeAfterFix tokenizes the fixed content again and abandons the
	// fix if that fails.
	RetokenizeAfterFix bool

	// MaxFixPasses limits the number of fix iterations.
	// Zero means DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		RetokenizeAfterFix:  true,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	// Engine runs the fixers.
	Engine *Engine
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the full pipeline for a single file.
//
// The pipeline performs the following steps:
//  1. Read and hash the original file.
//  2. Run the fixers, applying edits in memory, until nothing changes or
//     the pass limit is hit.
//  3. Optionally tokenize the result again.
//  4. Generate a diff (dry-run mode) and stop.
//  5. Check for concurrent modifications.
//  6. Create a backup (if enabled).
//  7. Write the modified content atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	originalContent, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, content, err := p.fixLoop(ctx, path, originalContent, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Modified {
		return result, nil
	}

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, originalContent, content)
		return result, nil
	}

	modified, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, content, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent runs the fix loop over in-memory content without any file
// I/O. A diff is generated whenever the content changed.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	originalContent []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result, content, err := p.fixLoop(ctx, path, originalContent, cfg, opts)
	if err != nil {
		return nil, err
	}
	if result.Modified {
		result.Diff = fix.GenerateDiff(path, originalContent, content)
	}
	return result, nil
}

// fixLoop runs the engine until it proposes no edits. It returns the result
// and the final content.
func (p *Pipeline) fixLoop(
	ctx context.Context,
	path string,
	originalContent []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, []byte, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	content := originalContent
	var first *FileResult

	for range maxPasses {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		default:
		}

		fileResult, err := p.Engine.FixFile(ctx, path, content, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrTokenizeFailure, err)
		}
		if first == nil {
			first = fileResult
		}
		result.FileResult = first

		if !opts.Fix || len(fileResult.Edits) == 0 {
			break
		}

		first.Edits = fileResult.Edits
		content = fix.ApplyEdits(content, fileResult.Edits)
		result.FixPasses++
		result.TotalEditsApplied += len(fileResult.Edits)
		result.Modified = true
	}

	if !result.Modified {
		return result, originalContent, nil
	}

	if opts.RetokenizeAfterFix {
		if err := p.retokenize(ctx, path, content); err != nil {
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("re-tokenize failed: %v", err)
			result.Modified = false
			return result, originalContent, nil
		}
	}

	result.ModifiedContent = content
	return result, content, nil
}

func (p *Pipeline) retokenize(ctx context.Context, path string, content []byte) error {
	file := source.NewFile(path, content)
	units, err := p.Engine.Units(ctx, file)
	if err != nil {
		return err
	}
	for _, unit := range units {
		if _, err := p.Engine.Tokenizer.Tokenize(ctx, unit); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	check := fsutil.CheckModifiedQuick
	if strict {
		check = fsutil.CheckModified
	}

	modified, err := check(ctx, info)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}
	return modified, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrTokenizeFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from config.Config.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		return DefaultPipelineOptions()
	}
	opts := DefaultPipelineOptions()
	opts.Fix = cfg.Fix
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)
	return opts
}
