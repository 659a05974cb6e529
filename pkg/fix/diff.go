package fix

import (
	"fmt"
	"strings"
)

// Diff is a unified, line based diff between original and fixed content.
type Diff struct {
	Path      string
	Original  []byte
	Modified  []byte
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// DiffHunk is a contiguous group of changes with surrounding context.
// Start lines are 1-based.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine is a single line of a hunk without its prefix.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// prefix returns the unified diff marker for the kind.
func (k DiffLineKind) prefix() byte {
	switch k {
	case DiffLineAdd:
		return '+'
	case DiffLineRemove:
		return '-'
	default:
		return ' '
	}
}

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil when the two contents have the same lines.
func GenerateDiff(path string, original, modified []byte) *Diff {
	ops := diffLines(splitLines(original), splitLines(modified))

	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Hunks:    hunks,
	}
	for _, op := range ops {
		switch op.Kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		}
	}
	return diff
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified format without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			builder.WriteByte(line.Kind.prefix())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// diffLines walks a suffix LCS table and emits one op per line of either side.
func diffLines(orig, mod []string) []DiffLine {
	rows, cols := len(orig), len(mod)

	// lcs[i][j] is the LCS length of orig[i:] and mod[j:].
	lcs := make([][]int, rows+1)
	for i := range lcs {
		lcs[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if orig[i] == mod[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]DiffLine, 0, rows+cols)
	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && orig[i] == mod[j]:
			ops = append(ops, DiffLine{Kind: DiffLineContext, Content: orig[i]})
			i++
			j++
		case j == cols || (i < rows && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, DiffLine{Kind: DiffLineRemove, Content: orig[i]})
			i++
		default:
			ops = append(ops, DiffLine{Kind: DiffLineAdd, Content: mod[j]})
			j++
		}
	}
	return ops
}

// groupHunks cuts the op stream into hunks. Changes separated by at most
// twice the context width share a hunk.
func groupHunks(ops []DiffLine) []DiffHunk {
	var hunks []DiffHunk

	origLine, modLine := 1, 1
	var current *DiffHunk
	trailing := 0

	for idx, op := range ops {
		if op.Kind != DiffLineContext {
			if current == nil {
				current = openHunk(ops, idx, origLine, modLine)
			}
			trailing = 0
		} else if current != nil {
			trailing++
			if trailing > contextLines && !changeWithin(ops, idx, contextLines) {
				hunks = append(hunks, *current)
				current = nil
			}
		}

		if current != nil {
			current.push(op)
		}

		if op.Kind != DiffLineAdd {
			origLine++
		}
		if op.Kind != DiffLineRemove {
			modLine++
		}
	}
	if current != nil {
		hunks = append(hunks, *current)
	}
	return hunks
}

// openHunk starts a hunk at ops[idx] with up to contextLines of leading
// context. origLine and modLine are the line numbers of ops[idx].
func openHunk(ops []DiffLine, idx, origLine, modLine int) *DiffHunk {
	lead := 0
	for lead < contextLines && idx-lead-1 >= 0 && ops[idx-lead-1].Kind == DiffLineContext {
		lead++
	}

	hunk := &DiffHunk{OriginalStart: origLine - lead, ModifiedStart: modLine - lead}
	for _, op := range ops[idx-lead : idx] {
		hunk.push(op)
	}
	return hunk
}

// changeWithin reports whether a change occurs in ops(idx, idx+n].
func changeWithin(ops []DiffLine, idx, n int) bool {
	for k := idx + 1; k <= idx+n && k < len(ops); k++ {
		if ops[k].Kind != DiffLineContext {
			return true
		}
	}
	return false
}

func (h *DiffHunk) push(op DiffLine) {
	h.Lines = append(h.Lines, op)
	if op.Kind != DiffLineAdd {
		h.OriginalCount++
	}
	if op.Kind != DiffLineRemove {
		h.ModifiedCount++
	}
}
