package source

// Unit is a contiguous span of PHP source inside a File. A PHP file is a
// single unit; a Markdown file yields one unit per PHP code block.
type Unit struct {
	// Offset is the byte offset of the unit within the file.
	Offset int

	// Content is the unit's bytes. It aliases the file content.
	Content []byte

	// Code is true when the unit starts in PHP code rather than inline HTML,
	// as documentation snippets without an open tag do.
	Code bool
}

// WholeFile returns the unit covering all of f.
func WholeFile(f *File) Unit {
	return Unit{Content: f.Content}
}

// End returns the byte offset just past the unit.
func (u Unit) End() int {
	return u.Offset + len(u.Content)
}
