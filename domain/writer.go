package domain

import (
	"context"
	"time"
)

// Writer persists calculated release data back into the project tree.
type Writer interface {
	// PersistVersion rewrites the version declared in the module manifest at
	// dir. Writing the version that is already present is a no-op.
	PersistVersion(ctx context.Context, dir string, version Version) error

	// UpdateChangelog promotes the Unreleased section of the module's
	// changelog to the released version dated date. A module without a
	// changelog is not an error.
	UpdateChangelog(ctx context.Context, dir string, version Version, date time.Time) error
}
