package platform

import (
	"log/slog"
	"time"

	"github.com/geotagx/builder/pkg/core"
)

// options holds the internal configuration for the builder service.
type options struct {
	source      core.ProjectSource
	writer      core.BundleWriter
	logger      *slog.Logger
	adapter     string
	config      map[string]interface{}
	serializers map[string]any
}

// Option defines a functional option for configuring the builder.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:     "fs",
		config:      make(map[string]interface{}),
		serializers: make(map[string]any),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithSerializer registers a custom configuration parser for a file extension.
// The serializer 's' must implement the adapter's Serializer interface (e.g. fs.Serializer).
// Using 'any' keeps the public API clean, but validation happens at runtime during Init.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource allows injecting a custom project source (e.g. in-memory, archive).
// If provided, the default filesystem adapter is skipped.
func WithSource(src core.ProjectSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithWriter overrides where bundles are written.
func WithWriter(w core.BundleWriter) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithAdapter allows specifying the source adapter to use by name (e.g. "fs").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithOutputDir sets the bundle output directory (relative to the root unless absolute).
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.config["output_dir"] = dir
	}
}

// WithBundleFormat selects the bundle serializer by extension (".json" or ".yaml").
func WithBundleFormat(ext string) Option {
	return func(o *options) {
		o.config["bundle_ext"] = ext
	}
}

// WithMinify enables or disables minification of project.js and project.css.
// Minification is enabled by default.
func WithMinify(enabled bool) Option {
	return func(o *options) {
		o.config["minify"] = enabled
	}
}

// WithPattern sets the doublestar pattern used to discover projects.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.config["pattern"] = pattern
	}
}

// WithDebounce sets the window in which watcher events for one file are coalesced.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.config["debounce"] = d
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
// This allows applications to log or react to runtime watcher failures (e.g. permission denied)
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
