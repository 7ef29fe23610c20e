package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geotagx/builder/pkg/core"
)

// TempFilePrefix is the prefix of in-flight bundle files.
const TempFilePrefix = "geotagx-tmp-"

// WriteBundle serializes p into <OutputDir>/<slug><BundleExt>.
func (r *Repository) WriteBundle(ctx context.Context, p *core.Project) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s, ok := r.serializers[r.config.BundleExt]
	if !ok {
		return "", fmt.Errorf("no serializer registered for bundle extension %q", r.config.BundleExt)
	}

	data, err := s.Serialize(p)
	if err != nil {
		return "", fmt.Errorf("failed to serialize bundle for '%s': %w", p.Slug, err)
	}

	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(r.config.OutputDir, p.Slug+r.config.BundleExt)
	if err := replaceFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// replaceFile writes data next to filename and renames it into place.
func replaceFile(filename string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}

	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}
	return nil
}
