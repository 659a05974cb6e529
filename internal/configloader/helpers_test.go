package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gophpfix/pkg/fixer"
	"github.com/yaklabco/gophpfix/pkg/fixer/rules"
)

func newRegistry() *fixer.Registry {
	registry := fixer.NewRegistry()
	rules.RegisterAll(registry)
	rules.RegisterAliases(registry)
	return registry
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolated returns options that only consult dir.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		NonInteractive:     true,
		Registry:           newRegistry(),
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
