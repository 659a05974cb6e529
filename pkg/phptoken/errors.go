package phptoken

import "fmt"

// MalformedInputError reports a structural scan that ran off its bound
// without finding the token it was looking for. Syntactically valid PHP never
// produces it.
type MalformedInputError struct {
	// Index is the slot the scan started from.
	Index int

	// Bound is the exclusive limit the scan reached.
	Bound int

	// Reason describes what was being matched.
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at token %d (bound %d): %s", e.Index, e.Bound, e.Reason)
}
