package config

import "context"

// Loader is the interface for a format-specific project file loader.
type Loader interface {
	// Load reads every project file found under the given paths and merges
	// them into one model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
