package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/geotagx/builder/pkg/core"
)

// Candidate file names, in lookup order.
var (
	ProjectFiles  = []string{"project.json", "project.yaml", "project.yml"}
	TutorialFiles = []string{"tutorial.json", "tutorial.yaml", "tutorial.yml"}
)

const (
	ScriptFile     = "project.js"
	StylesheetFile = "project.css"

	// DefaultPattern discovers every project configuration below the root.
	DefaultPattern = "**/project.{json,yaml,yml}"
	// DefaultOutputDir is where bundles are written, relative to the root.
	DefaultOutputDir = "build"
	// DefaultBundleExt selects the bundle serializer.
	DefaultBundleExt = ".json"
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Root         string
	OutputDir    string        // relative to Root unless absolute
	BundleExt    string        // e.g. ".json" or ".yaml"
	Pattern      string        // doublestar pattern used by Discover
	Minify       bool          // minify project.js / project.css
	Debounce     time.Duration // watcher event coalescing window
	Logger       *slog.Logger
	ErrorHandler func(error) // receives watcher failures
	Serializers  map[string]Serializer
}

// Repository implements core.ProjectSource, core.BundleWriter and
// core.Watchable on top of a directory tree.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	minifier    Minifier
	cache       *parseCache

	mu            sync.RWMutex
	watcherActive bool
	lastLoad      *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Root == "" {
		config.Root = "."
	}
	if abs, err := filepath.Abs(config.Root); err == nil {
		config.Root = abs
	}
	if config.OutputDir == "" {
		config.OutputDir = DefaultOutputDir
	}
	if !filepath.IsAbs(config.OutputDir) {
		config.OutputDir = filepath.Join(config.Root, config.OutputDir)
	}
	if config.BundleExt == "" {
		config.BundleExt = DefaultBundleExt
	}
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	serializers := DefaultSerializers()
	for ext, s := range config.Serializers {
		serializers[ext] = s
	}

	var minifier Minifier = passthrough{}
	if config.Minify {
		minifier = NewMinifier()
	}

	return &Repository{
		Path:        config.Root,
		config:      config,
		serializers: serializers,
		minifier:    minifier,
		cache:       newParseCache(DefaultCacheExpiration, DefaultCacheCleanupInterval),
	}
}

func (r *Repository) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(r.Path, dir)
}

// Load reads the project configuration, the optional tutorial and the
// optional custom assets of the project in dir.
func (r *Repository) Load(ctx context.Context, dir string) (core.RawProject, error) {
	if err := ctx.Err(); err != nil {
		return core.RawProject{}, err
	}

	abs := r.resolve(dir)
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return core.RawProject{}, fmt.Errorf("%w: the path '%s' does not point to a readable directory", core.ErrProjectNotFound, abs)
	}

	cfg, err := r.readFirst(abs, ProjectFiles)
	if err != nil {
		return core.RawProject{}, err
	}
	if cfg == nil {
		return core.RawProject{}, fmt.Errorf("%w: the directory '%s' does not contain a project configuration file or you may not have sufficient access permissions", core.ErrProjectNotFound, abs)
	}

	raw := core.RawProject{Dir: dir, Config: cfg}

	if raw.Tutorial, err = r.readFirst(abs, TutorialFiles); err != nil {
		return core.RawProject{}, err
	}
	if raw.Script, err = r.readAsset(abs, ScriptFile, MediaTypeJS); err != nil {
		return core.RawProject{}, err
	}
	if raw.Stylesheet, err = r.readAsset(abs, StylesheetFile, MediaTypeCSS); err != nil {
		return core.RawProject{}, err
	}

	now := time.Now()
	r.mu.Lock()
	r.lastLoad = &now
	r.mu.Unlock()

	return raw, nil
}

// readFirst parses the first readable, non-empty file among names.
// It returns a nil record when none exists.
func (r *Repository) readFirst(dir string, names []string) (core.Record, error) {
	for _, name := range names {
		filename := filepath.Join(dir, name)
		info, err := os.Stat(filename)
		if err != nil || info.IsDir() {
			continue
		}

		ext := filepath.Ext(filename)
		s, ok := r.serializers[ext]
		if !ok {
			r.config.Logger.Warn("no configuration parser for extension", "ext", ext, "path", filename)
			continue
		}

		if rec, hit := r.cache.Get(filename, info.ModTime(), info.Size()); hit {
			return rec, nil
		}

		f, err := os.Open(filename)
		if err != nil {
			r.config.Logger.Debug("skipping unreadable configuration", "path", filename, "error", err)
			continue
		}
		rec, err := s.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", core.ErrInvalidProject, filename, err)
		}
		if rec == nil {
			continue
		}

		r.cache.Set(filename, info.ModTime(), info.Size(), rec)
		return rec, nil
	}
	return nil, nil
}

// readAsset returns the minified content of an optional asset file.
// A missing or unreadable file is not an error.
func (r *Repository) readAsset(dir, name, mediatype string) (string, error) {
	filename := filepath.Join(dir, name)
	data, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.config.Logger.Debug("ignoring unreadable asset", "path", filename, "error", err)
		}
		return "", nil
	}

	out, err := r.minifier.Minify(mediatype, string(data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrInvalidProject, filename, err)
	}
	return out, nil
}

// Discover returns the directories, relative to the root, that contain a
// project configuration matching the configured pattern. Hidden
// directories and the output directory are skipped.
func (r *Repository) Discover(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(r.Path), r.config.Pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to discover projects: %w", err)
	}

	outRel, _ := filepath.Rel(r.Path, r.config.OutputDir)
	outRel = filepath.ToSlash(outRel)

	seen := make(map[string]struct{})
	var dirs []string
	for _, m := range matches {
		dir := path.Dir(m)
		if r.skipped(dir, outRel) {
			continue
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, filepath.FromSlash(dir))
	}
	sort.Strings(dirs)

	r.config.Logger.Debug("projects discovered", "root", r.Path, "count", len(dirs))
	return dirs, nil
}

// skipped reports whether a slash-separated relative dir is hidden or lies
// inside the output directory.
func (r *Repository) skipped(dir, outRel string) bool {
	if dir == "." {
		return false
	}
	if outRel != "" && outRel != "." && (dir == outRel || strings.HasPrefix(dir, outRel+"/")) {
		return true
	}
	for _, seg := range strings.Split(dir, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// Watch starts a watcher over the root and returns its event channel.
// The channel is closed once ctx is cancelled.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	events := make(chan core.Event, 100)
	w := newWatchWorker(r, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var (
	_ core.ProjectSource = (*Repository)(nil)
	_ core.BundleWriter  = (*Repository)(nil)
	_ core.Watchable     = (*Repository)(nil)
)
