package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gophpfix/pkg/langdetect"
)

// shebangProbe is how many leading bytes of an extensionless file are read
// to decide whether it is a PHP script.
const shebangProbe = 256

// Discover finds the files selected by opts and returns them as sorted,
// deduplicated absolute paths. Paths named explicitly are kept even when
// their extension is not selected, unless an exclude pattern matches.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		opts:    opts,
		workDir: workDir,
		exts:    opts.extensionSet(),
		seen:    make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if !d.excluded(abs) {
				d.add(abs)
			}
			continue
		}
		if err := d.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	opts    Options
	workDir string
	exts    map[string]struct{}
	seen    map[string]struct{}
	files   []string
}

func (d *discoverer) add(p string) {
	if _, ok := d.seen[p]; ok {
		return
	}
	d.seen[p] = struct{}{}
	d.files = append(d.files, p)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (p != root && d.excluded(p)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreachable targets are skipped.
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				return d.walk(ctx, target)
			}
		}

		if d.selected(p) && !d.excluded(p) {
			d.add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// selected reports whether a file found while walking should be processed.
func (d *discoverer) selected(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	if ext != "" {
		_, ok := d.exts[ext]
		return ok
	}
	if !d.opts.Scripts {
		return false
	}
	head, err := readHead(p)
	if err != nil {
		return false
	}
	return bytes.HasPrefix(head, []byte("#!")) && langdetect.IsPHPScript(filepath.Base(p), head)
}

func (d *discoverer) excluded(p string) bool {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range d.opts.ExcludeGlobs {
		if MatchGlob(filepath.ToSlash(pattern), rel) {
			return true
		}
	}
	return false
}

func readHead(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, shebangProbe)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// MatchGlob reports whether the slash-separated relative path rel matches
// pattern. A "**" segment matches any number of path segments. A pattern
// without a slash matches the base name at any depth, and a pattern that
// matches a directory matches everything below it.
func MatchGlob(pattern, rel string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	if pattern == "" {
		return false
	}

	if !strings.Contains(pattern, "/") {
		for _, seg := range strings.Split(rel, "/") {
			if ok, _ := path.Match(pattern, seg); ok {
				return true
			}
		}
		return false
	}

	pat := strings.Split(strings.TrimSuffix(pattern, "/"), "/")
	segs := strings.Split(rel, "/")
	for n := len(segs); n > 0; n-- {
		if matchSegments(pat, segs[:n]) {
			return true
		}
	}
	return false
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			for i := 0; i <= len(segs); i++ {
				if matchSegments(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], segs[0]); !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
