package fixer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/config"
	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/fsutil"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "FooTest.php")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipeline_ProcessFile_CheckOnly(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "<?php foo();")
	pipeline := fixer.NewPipeline(newEngine(newRenameFixer("TEST001", "foo", "bar", false)))

	cfg := config.NewConfig()
	result, err := pipeline.ProcessFile(context.Background(), path, cfg, fixer.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)

	assert.NotNil(t, result.OriginalInfo)
	assert.False(t, result.Modified)
	assert.False(t, result.Written)
	assert.Equal(t, "issues found", result.Summary())
}

func TestPipeline_ProcessFile_Writes(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "<?php foo(); foo();")
	pipeline := fixer.NewPipeline(newEngine(newRenameFixer("TEST001", "foo", "bar", false)))

	opts := fixer.DefaultPipelineOptions()
	opts.Fix = true
	opts.Backup = fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	result, err := pipeline.ProcessFile(context.Background(), path, fixConfig(), opts)
	require.NoError(t, err)

	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.Equal(t, 1, result.FixPasses)
	assert.Equal(t, 2, result.TotalEditsApplied)
	assert.Equal(t, "fixed (backup created)", result.Summary())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php bar(); bar();", string(got))

	backup, err := os.ReadFile(fsutil.BackupPath(path, fsutil.BackupModeSidecar))
	require.NoError(t, err)
	assert.Equal(t, "<?php foo(); foo();", string(backup))
}

func TestPipeline_ProcessFile_DryRun(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "<?php\nfoo();\n")
	pipeline := fixer.NewPipeline(newEngine(newRenameFixer("TEST001", "foo", "bar", false)))

	opts := fixer.DefaultPipelineOptions()
	opts.Fix = true
	opts.DryRun = true

	result, err := pipeline.ProcessFile(context.Background(), path, fixConfig(), opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	require.NotNil(t, result.Diff)
	assert.Contains(t, result.Diff.String(), "+bar();")
	assert.Equal(t, "changes pending", result.Summary())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\nfoo();\n", string(got))
}

func TestPipeline_ProcessFile_ChainedPasses(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "<?php a();")
	pipeline := fixer.NewPipeline(newEngine(
		newRenameFixer("TEST001", "a", "b", false),
		newRenameFixer("TEST002", "b", "c", false),
	))

	opts := fixer.DefaultPipelineOptions()
	opts.Fix = true

	result, err := pipeline.ProcessFile(context.Background(), path, fixConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FixPasses)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php c();", string(got))
}

func TestPipeline_ProcessFile_NotFound(t *testing.T) {
	t.Parallel()

	pipeline := fixer.NewPipeline(newEngine())
	_, err := pipeline.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.php"),
		fixConfig(), fixer.DefaultPipelineOptions())

	require.ErrorIs(t, err, fixer.ErrFileNotFound)
	assert.True(t, fixer.IsPipelineError(err))
}

func TestPipeline_ProcessContent(t *testing.T) {
	t.Parallel()

	pipeline := fixer.NewPipeline(newEngine(newRenameFixer("TEST001", "foo", "bar", false)))

	opts := fixer.DefaultPipelineOptions()
	opts.Fix = true

	result, err := pipeline.ProcessContent(context.Background(), "a.php", []byte("<?php foo();\n"), fixConfig(), opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.Equal(t, "<?php bar();\n", string(result.ModifiedContent))
	require.NotNil(t, result.Diff)
	assert.Equal(t, 1, result.Diff.Additions)
}

func TestBackupConfigFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Backups = config.BackupsConfig{Enabled: true, Mode: "sidecar"}
	assert.True(t, fixer.BackupConfigFromConfig(cfg).Enabled)

	cfg.NoBackups = true
	assert.False(t, fixer.BackupConfigFromConfig(cfg).Enabled)

	assert.Equal(t, fsutil.DefaultBackupConfig(), fixer.BackupConfigFromConfig(nil))
}
