package platform

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/geotagx/builder/pkg/adapters/fs"
	"github.com/geotagx/builder/pkg/core"
)

// Init prepares the project source rooted at uri.
// The 'uri' argument is adapter-specific (e.g., directory path for 'fs').
func Init(uri string, opts ...Option) (core.ProjectSource, error) {
	return initSource(uri, apply(opts))
}

func initSource(uri string, o *options) (core.ProjectSource, error) {
	if o.source != nil {
		return o.source, nil
	}

	switch o.adapter {
	case "fs":
		return initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (*fs.Repository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("project root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", path)
	}

	minify := true
	if val, ok := o.config["minify"].(bool); ok {
		minify = val
	}
	outputDir, _ := o.config["output_dir"].(string)
	bundleExt, _ := o.config["bundle_ext"].(string)
	pattern, _ := o.config["pattern"].(string)
	debounce, _ := o.config["debounce"].(time.Duration)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	serializers := make(map[string]fs.Serializer, len(o.serializers))
	for ext, s := range o.serializers {
		ser, ok := s.(fs.Serializer)
		if !ok {
			return nil, fmt.Errorf("serializer for %s does not implement fs.Serializer", ext)
		}
		serializers[ext] = ser
	}

	if bundleExt != "" {
		if _, known := serializers[bundleExt]; !known {
			if _, known := fs.DefaultSerializers()[bundleExt]; !known {
				return nil, fmt.Errorf("unsupported bundle format: %s", bundleExt)
			}
		}
	}

	return fs.NewRepository(fs.Config{
		Root:         path,
		OutputDir:    outputDir,
		BundleExt:    bundleExt,
		Pattern:      pattern,
		Minify:       minify,
		Debounce:     debounce,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
		Serializers:  serializers,
	}), nil
}

// Validate loads and validates the given projects (or every discovered one)
// under root and returns one report per project.
func Validate(ctx context.Context, root string, dirs []string, opts ...Option) ([]core.Report, error) {
	svc, err := New(root, opts...)
	if err != nil {
		return nil, err
	}
	return svc.ValidateAll(ctx, dirs...)
}
