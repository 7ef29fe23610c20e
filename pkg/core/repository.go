package core

import "context"

// ProjectSource defines where project configurations come from.
// Adhering to this interface keeps the core independent of the storage
// (local directories, archives, remote stores).
type ProjectSource interface {
	// Load reads the raw configuration of the project identified by dir.
	// It returns an error wrapping ErrProjectNotFound when dir holds no project.
	Load(ctx context.Context, dir string) (RawProject, error)

	// Discover lists the identifiers of every project the source can load.
	Discover(ctx context.Context) ([]string, error)
}

// BundleWriter persists a validated project for the template renderer.
type BundleWriter interface {
	// WriteBundle stores p and returns the location it was written to.
	WriteBundle(ctx context.Context, p *Project) (string, error)
}

// Watchable defines sources that can report configuration changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
