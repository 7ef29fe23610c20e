package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotagx/builder/internal/platform"
	"github.com/geotagx/builder/pkg/adapters/fs"
	"github.com/geotagx/builder/pkg/core"
)

const floodProject = `{
  "name": "Flood Mapper",
  "short_name": "flood-mapper",
  "description": "Map the floods.",
  "why": "Relief teams need maps.",
  "questionnaire": [
    {"key": "water", "type": "binary", "question": "Is there water?", "branch": {"Yes": "depth", "No": "end"}},
    {"key": "depth", "type": "number", "question": "How deep?"}
  ]
}`

func writeProject(t *testing.T, root, dir, content string) {
	t.Helper()
	path := filepath.Join(root, dir, "project.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestInit(t *testing.T) {
	t.Run("Filesystem Adapter By Default", func(t *testing.T) {
		root := t.TempDir()

		src, err := platform.Init(root)
		require.NoError(t, err)

		repo, ok := src.(*fs.Repository)
		require.True(t, ok, "expected fs repository")
		assert.Equal(t, root, repo.Path)
	})

	t.Run("Missing Root Fails", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})

	t.Run("Root Must Be a Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "project.json")
		require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

		_, err := platform.Init(file)
		assert.Error(t, err)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("s3"))
		assert.ErrorContains(t, err, "unknown adapter")
	})

	t.Run("Unsupported Bundle Format", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithBundleFormat(".toml"))
		assert.ErrorContains(t, err, "unsupported bundle format")
	})

	t.Run("Serializer Must Implement fs.Serializer", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithSerializer(".ini", "not a serializer"))
		assert.Error(t, err)
	})
}

type stubSource struct{}

func (stubSource) Load(ctx context.Context, dir string) (core.RawProject, error) {
	return core.RawProject{}, core.ErrProjectNotFound
}

func (stubSource) Discover(ctx context.Context) ([]string, error) { return nil, nil }

func TestNew(t *testing.T) {
	t.Run("Build Writes Bundle", func(t *testing.T) {
		root := t.TempDir()
		out := filepath.Join(t.TempDir(), "dist")
		writeProject(t, root, "flood", floodProject)

		svc, err := platform.New(root, platform.WithOutputDir(out), platform.WithMinify(false))
		require.NoError(t, err)

		location, err := svc.Build(context.Background(), "flood")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "flood-mapper.json"), location)
		assert.FileExists(t, location)
	})

	t.Run("YAML Bundle Format", func(t *testing.T) {
		root := t.TempDir()
		writeProject(t, root, "flood", floodProject)

		svc, err := platform.New(root, platform.WithBundleFormat(".yaml"))
		require.NoError(t, err)

		location, err := svc.Build(context.Background(), "flood")
		require.NoError(t, err)
		assert.Equal(t, ".yaml", filepath.Ext(location))
	})

	t.Run("Injected Source Has No Writer", func(t *testing.T) {
		svc, err := platform.New("ignored", platform.WithSource(stubSource{}))
		require.NoError(t, err)

		_, err = svc.Build(context.Background(), "flood")
		assert.ErrorContains(t, err, "no bundle writer")

		_, err = svc.LoadProject(context.Background(), "flood")
		assert.True(t, errors.Is(err, core.ErrProjectNotFound))
	})
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "flood", floodProject)
	writeProject(t, root, "broken", `{"name": "Broken"}`)

	reports, err := platform.Validate(context.Background(), root, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byDir := map[string]core.Report{}
	for _, r := range reports {
		byDir[r.Dir] = r
	}
	assert.True(t, byDir["flood"].Valid())
	assert.False(t, byDir["broken"].Valid())
	assert.ErrorIs(t, byDir["broken"].Err, core.ErrInvalidProject)
}
