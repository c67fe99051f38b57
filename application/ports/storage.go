package ports

import (
	"context"

	"reqboard/application/workspace"
)

// ProjectStore persists and restores the complete workspace state. The
// application layer depends on this interface; the JSON file codec in
// infrastructure implements it.
type ProjectStore interface {
	// Save writes the state atomically to the backing file.
	Save(ctx context.Context, state *workspace.State) error

	// Load reads and reconstructs a full state from the backing file.
	// A malformed file is an IO error and leaves no partial state behind.
	Load(ctx context.Context) (*workspace.State, error)

	// Exists reports whether the backing file is present.
	Exists() bool

	// Path returns the backing file path, for logging.
	Path() string
}
