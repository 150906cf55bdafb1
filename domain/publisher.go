package domain

import "context"

// Publisher records released state outside the working tree: the batched
// release change and one tag per module.
type Publisher interface {
	// TagExists reports whether the tag is already present.
	TagExists(ctx context.Context, tag string) (bool, error)

	// CreateTag creates the tag at the given pointer, or at the current head
	// when the pointer is nil. A tag that already exists surfaces as a
	// PublishConflictError, which callers treat as success.
	CreateTag(ctx context.Context, tag string, target *ReleasePointer) error

	// RecordBatchChange records every changed directory as one batched
	// change and returns the pointer release tags should attach to.
	RecordBatchChange(ctx context.Context, dirs []string, message string) (*ReleasePointer, error)
}
