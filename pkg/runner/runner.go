package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/gophpfix/internal/logging"
	"github.com/yaklabco/gophpfix/pkg/fixer"
)

// Runner fixes many files with one fixer.Pipeline.
type Runner struct {
	Pipeline *fixer.Pipeline
}

// New creates a Runner.
func New(pipeline *fixer.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them with a pool of
// workers. Each file is handled by exactly one worker, and outcomes are
// reported in path order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := newResult(len(files))
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	pipelineOpts := fixer.PipelineOptionsFromConfig(opts.Config)

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))
	work := make(chan int)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				outcomes[idx] = r.process(ctx, files[idx], opts, pipelineOpts)
				done[idx] = true
			}
		}()
	}

feed:
	for idx := range files {
		select {
		case <-ctx.Done():
			break feed
		case work <- idx:
		}
	}
	close(work)
	wg.Wait()

	for idx, outcome := range outcomes {
		if done[idx] {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) process(
	ctx context.Context,
	path string,
	opts Options,
	pipelineOpts fixer.PipelineOptions,
) FileOutcome {
	pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Config, pipelineOpts)
	if err != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		return FileOutcome{Path: path, Error: err}
	}

	logging.FromContext(ctx).Debug("file processed",
		logging.FieldPath, path,
		logging.FieldPasses, pr.FixPasses,
		logging.FieldEdits, pr.TotalEditsApplied,
	)
	return FileOutcome{Path: path, Result: pr}
}
