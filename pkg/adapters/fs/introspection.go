package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	OutputDir     string     `json:"output_dir"`
	Pattern       string     `json:"pattern"`
	CacheSize     int        `json:"cache_size"`
	Minify        bool       `json:"minify"`
	Serializers   []string   `json:"serializers"`
	WatcherActive bool       `json:"watcher_active"`
	LastLoad      *time.Time `json:"last_load,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return RepositoryState{
		Path:          r.Path,
		OutputDir:     r.config.OutputDir,
		Pattern:       r.config.Pattern,
		CacheSize:     r.cache.Len(),
		Minify:        r.config.Minify,
		Serializers:   serializers,
		WatcherActive: r.watcherActive,
		LastLoad:      r.lastLoad,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
