package builder

import (
	"context"
	"log/slog"
	"time"

	"github.com/geotagx/builder/internal/platform"
	"github.com/geotagx/builder/pkg/core"
)

// --- Types ---

// Record is a single authored configuration entry.
type Record = core.Record

// Questionnaire is a validated, ordered set of questions and their control flow.
type Questionnaire = core.Questionnaire

// Question is a single validated questionnaire node.
type Question = core.Question

// Project is a validated GeoTag-X project.
type Project = core.Project

// Report is the outcome of validating one project.
type Report = core.Report

// --- Configuration ---

// ConfigFile is the workspace configuration file name.
const ConfigFile = platform.ConfigFile

// Option defines a functional option for configuring the builder.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithSource allows injecting a custom project source.
func WithSource(src core.ProjectSource) Option {
	return platform.WithSource(src)
}

// WithWriter allows injecting a custom bundle writer.
func WithWriter(w core.BundleWriter) Option {
	return platform.WithWriter(w)
}

// WithAdapter allows specifying the source adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSerializer registers a configuration parser for a file extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// WithOutputDir sets the directory bundles are written to.
func WithOutputDir(dir string) Option {
	return platform.WithOutputDir(dir)
}

// WithBundleFormat selects the bundle format by extension (".json", ".yaml").
func WithBundleFormat(ext string) Option {
	return platform.WithBundleFormat(ext)
}

// WithMinify toggles minification of project.js and project.css.
func WithMinify(enabled bool) Option {
	return platform.WithMinify(enabled)
}

// WithPattern sets the glob used to discover projects.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithDebounce sets the watcher coalescing window.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithWatcherErrorHandler registers a callback for watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a builder Service rooted at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes the project source explicitly.
func Init(path string, opts ...Option) (core.ProjectSource, error) {
	return platform.Init(path, opts...)
}

// --- Operations ---

// Validate validates dirs under root, or every discovered project when dirs is empty.
func Validate(ctx context.Context, root string, dirs []string, opts ...Option) ([]Report, error) {
	return platform.Validate(ctx, root, dirs, opts...)
}

// NewQuestionnaire validates records and builds a questionnaire.
func NewQuestionnaire(records []Record) (*Questionnaire, error) {
	return core.NewQuestionnaire(records)
}

// FindRoot looks upwards from startDir for a workspace root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
