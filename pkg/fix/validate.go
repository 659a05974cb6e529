package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError describes an edit whose range does not fit the content.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits returns the first edit whose range does not fit contentLen.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		switch {
		case edit.StartOffset < 0:
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		case edit.EndOffset < edit.StartOffset:
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		case edit.EndOffset > contentLen:
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then by end offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
		)
	})
}

// overlaps reports whether next starts inside prev. Two insertions at the
// same offset also overlap since their order would be ambiguous.
func overlaps(prev, next TextEdit) bool {
	if next.StartOffset < prev.EndOffset {
		return true
	}
	return next.StartOffset == prev.StartOffset && prev.StartOffset == prev.EndOffset
}

// PrepareEdits validates and sorts edits, failing on the first overlap.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	for i := 1; i < len(sorted); i++ {
		if overlaps(sorted[i-1], sorted[i]) {
			return nil, &ConflictError{Edit1: sorted[i-1], Edit2: sorted[i]}
		}
	}
	return sorted, nil
}

// PrepareEditsFiltered validates and sorts edits without failing on
// conflicts. Identical edits collapse into one, overlapping deletions merge
// into their union, and any other overlapping edit is skipped in favour of
// the earlier one.
//
// Returns (accepted, skipped, merged count, error). The error is only set for
// validation failures.
func PrepareEditsFiltered(edits []TextEdit, contentLen int) ([]TextEdit, []TextEdit, int, error) {
	if len(edits) == 0 {
		return nil, nil, 0, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, nil, 0, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	accepted := make([]TextEdit, 0, len(sorted))
	var skipped []TextEdit
	merged := 0

	current := sorted[0]
	for _, edit := range sorted[1:] {
		switch {
		case edit == current:
			merged++
		case !overlaps(current, edit):
			accepted = append(accepted, current)
			current = edit
		case current.IsDeletion() && edit.IsDeletion():
			current.EndOffset = max(current.EndOffset, edit.EndOffset)
			merged++
		default:
			skipped = append(skipped, edit)
		}
	}
	accepted = append(accepted, current)

	return accepted, skipped, merged, nil
}
