// Package runner discovers PHP files and fixes them concurrently.
package runner

import (
	"strings"

	"github.com/yaklabco/gophpfix/pkg/config"
)

// Options controls multi-file behavior.
type Options struct {
	// Paths are the files or directories to process. Defaults to ".".
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// glob patterns. Defaults to the process working directory.
	WorkingDir string

	// Extensions lists the file extensions treated as PHP source.
	// Defaults to config.DefaultExtensions.
	Extensions []string

	// Markdown also selects Markdown files so their PHP code blocks are fixed.
	Markdown bool

	// Scripts also selects extensionless files whose shebang names PHP.
	Scripts bool

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent workers. Zero or negative
	// means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// MarkdownExtensions are the extensions selected when Options.Markdown is set.
func MarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

// OptionsFromConfig fills the discovery fields of Options from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg, Scripts: true}
	if cfg == nil {
		return opts
	}
	opts.Extensions = cfg.Extensions
	opts.Markdown = cfg.Markdown
	opts.ExcludeGlobs = cfg.Ignore
	opts.Jobs = cfg.Jobs
	return opts
}

func (o Options) extensionSet() map[string]struct{} {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = config.DefaultExtensions
	}

	set := make(map[string]struct{}, len(exts)+2)
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	if o.Markdown {
		for _, ext := range MarkdownExtensions() {
			set[ext] = struct{}{}
		}
	}
	return set
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
