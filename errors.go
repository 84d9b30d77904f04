package xmldom

import "errors"

// Sentinel errors for the precondition/assertion-style failures described
// in the error taxonomy: InvalidArgument, TokenizerError, StructuralMismatch.
// TokenizerError itself is never constructed here — it is whatever error the
// external tokenizer returns, propagated unchanged by Parse.
var (
	// ErrInvalidArgument marks a precondition violation: nil input to
	// Parse, attaching a node that already has a parent, or removing a
	// node whose sibling links are already inconsistent.
	ErrInvalidArgument = errors.New("xmldom: invalid argument")

	// ErrStructuralMismatch marks a malformed token stream: an end token
	// with no matching start cursor.
	ErrStructuralMismatch = errors.New("xmldom: structural mismatch")
)
