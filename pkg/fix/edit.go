// Package fix turns token slot changes into byte edits and applies them to
// file content.
package fix

import "github.com/yaklabco/gophpfix/pkg/phptoken"

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsDeletion reports whether the edit removes bytes without inserting any.
func (e TextEdit) IsDeletion() bool {
	return e.NewText == "" && e.EndOffset > e.StartOffset
}

// EditBuilder accumulates text edits for a file.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

// AddChange records a changed token slot. base is the byte offset of the
// tokenized unit inside the file.
func (b *EditBuilder) AddChange(base int, change phptoken.Change) {
	b.ReplaceRange(base+change.StartOffset, base+change.EndOffset, change.Text)
}

// FromChanges builds the edits for every changed slot of a unit.
func FromChanges(base int, changes []phptoken.Change) []TextEdit {
	builder := NewEditBuilder()
	for _, change := range changes {
		builder.AddChange(base, change)
	}
	return builder.Edits
}
