package driving

import "context"

// Watcher keeps the index in sync with a directory tree until the
// context is cancelled.
type Watcher interface {
	// Watch ingests changed files as filesystem events arrive. It blocks
	// until ctx is cancelled and returns nil on a clean shutdown.
	Watch(ctx context.Context, root string, opts IngestOptions) error
}
