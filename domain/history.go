package domain

import "context"

// HistoryProvider answers questions about the change history behind the
// project, usually by reading the underlying git repository.
type HistoryProvider interface {
	// LastReleaseFor returns the pointer of the module's most recent
	// release, or nil when the module has never been released.
	LastReleaseFor(ctx context.Context, module *Module) (*ReleasePointer, error)

	// CommitsSince returns the subject lines of the commits touching dir
	// since the given release pointer, oldest first. A nil pointer means the
	// full history. Failures are reported as HistoryUnavailableError.
	CommitsSince(ctx context.Context, dir string, since *ReleasePointer) ([]string, error)
}
