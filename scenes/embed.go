// Package scenes loads scene descriptions and motion scripts, from disk when
// present and from the embedded copies otherwise.
package scenes

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var ScenesFS embed.FS

// Load returns the raw bytes of a scene file.
func Load(name string) ([]byte, error) {
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(clean)
}

// LoadScene loads and validates a scene by name, e.g. "humanoid" or
// "humanoid.yaml".
func LoadScene(name string) (*Scene, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("scenes: load %s: %w", name, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenes: %s: %w", name, err)
	}
	return s, nil
}

// LoadSceneFile loads a scene from an explicit path.
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenes: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenes: %s: %w", path, err)
	}
	return s, nil
}

// LoadScript returns a motion script's source.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskScenePath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanScenePath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "scenes/")
	if !isSceneFile(s) {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "scenes/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskScenePath(clean string) string {
	return filepath.Join("scenes", filepath.FromSlash(clean))
}

// Resolve loads the scene at path when it is set and the named scene
// otherwise.
func Resolve(name, path string) (*Scene, error) {
	if path != "" {
		return LoadSceneFile(path)
	}
	return LoadScene(name)
}
