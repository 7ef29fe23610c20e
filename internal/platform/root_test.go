package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   workspace/ (geotagx.yaml)
	//     flood/ (project.yaml)
	//       assets/
	//   loose/ (project.json)
	//   empty/

	baseDir := t.TempDir()
	workspace := filepath.Join(baseDir, "workspace")
	projectDir := filepath.Join(workspace, "flood")
	nestedDir := filepath.Join(projectDir, "assets")
	looseDir := filepath.Join(baseDir, "loose")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, dir := range []string{nestedDir, looseDir, emptyDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{
		filepath.Join(workspace, ConfigFile):      "out: build\n",
		filepath.Join(projectDir, "project.yaml"): "name: Flood\n",
		filepath.Join(looseDir, "project.json"):   "{}",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{
			name:      "Start at Workspace",
			startPath: workspace,
			wantRoot:  workspace,
		},
		{
			name:      "Start in Project",
			startPath: projectDir,
			wantRoot:  workspace,
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			wantRoot:  workspace,
		},
		{
			name:      "Loose Project Directory",
			startPath: looseDir,
			wantRoot:  looseDir,
		},
		{
			name:      "No Root Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if got != "" && filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
