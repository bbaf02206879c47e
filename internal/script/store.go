package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"visionforge/internal/services"
)

// Store persists the ordered scene list as a JSON document on disk.
type Store struct {
	path string
}

// NewStore creates a store backed by the given document path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing document location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the current script. An absent document yields an empty list,
// not an error.
func (s *Store) Load() ([]Scene, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Scene{}, nil
		}
		return nil, services.Wrap(services.ErrTransient, "script", "load", "read document", err)
	}

	var scenes []Scene
	if err := json.Unmarshal(data, &scenes); err != nil {
		return nil, services.Wrap(services.ErrTransient, "script", "load", "parse document", err)
	}
	for i := range scenes {
		scenes[i].Normalize()
	}
	return scenes, nil
}

// Replace writes the full scene list as a single atomic swap: the document
// is staged in the same directory and renamed over the old one, so readers
// never observe a partial write.
func (s *Store) Replace(scenes []Scene) error {
	if scenes == nil {
		scenes = []Scene{}
	}
	data, err := json.MarshalIndent(scenes, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, "script", "replace", "marshal document", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "script", "replace", "ensure directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".script-*.json")
	if err != nil {
		return services.Wrap(services.ErrTransient, "script", "replace", "stage document", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransient, "script", "replace", "write document", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransient, "script", "replace", "close document", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrTransient, "script", "replace", fmt.Sprintf("swap %s", s.path), err)
	}
	return nil
}
