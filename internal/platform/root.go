package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the workspace configuration file read by the CLI.
const ConfigFile = "geotagx.yaml"

var projectMarkers = []string{"project.json", "project.yaml", "project.yml"}

// FindRoot walks upwards from startDir to the first directory holding a
// geotagx.yaml or a .git entry. If none exists, a startDir that is itself a
// project directory is returned; otherwise an error.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFile) || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for _, marker := range projectMarkers {
		if hasFile(abs, marker) {
			return abs, nil
		}
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
