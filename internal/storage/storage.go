package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/traindesk/api-crm/internal/models"
)

// Storage keys. The whole repository snapshot lives under one key; the
// display theme under another.
const (
	StateKey = "workflow-state"
	ThemeKey = "theme"
)

// Adapter persists the snapshot blob and the theme preference.
type Adapter interface {
	LoadState() (models.State, error)
	SaveState(s models.State) error
	LoadTheme() (string, error)
	SaveTheme(theme string) error
}

// FileAdapter keeps each key as a JSON file in a data directory. The
// default backend for local single-user runs.
type FileAdapter struct {
	dir string
}

// NewFileAdapter creates the data directory if needed.
func NewFileAdapter(dir string) (*FileAdapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileAdapter{dir: dir}, nil
}

func (f *FileAdapter) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// LoadState reads the snapshot blob. A missing file yields an empty
// snapshot; missing collections in an old blob are defaulted.
func (f *FileAdapter) LoadState() (models.State, error) {
	data, err := os.ReadFile(f.path(StateKey))
	if errors.Is(err, os.ErrNotExist) {
		return models.NewState(), nil
	}
	if err != nil {
		return models.State{}, err
	}
	var s models.State
	if err := json.Unmarshal(data, &s); err != nil {
		return models.State{}, err
	}
	s.Normalize()
	return s, nil
}

// SaveState writes the whole snapshot as one JSON document.
func (f *FileAdapter) SaveState(s models.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path(StateKey), data, 0o644)
}

// LoadTheme returns the persisted theme, defaulting to "light".
func (f *FileAdapter) LoadTheme() (string, error) {
	data, err := os.ReadFile(f.path(ThemeKey))
	if errors.Is(err, os.ErrNotExist) {
		return "light", nil
	}
	if err != nil {
		return "", err
	}
	var theme string
	if err := json.Unmarshal(data, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

// SaveTheme persists the theme string.
func (f *FileAdapter) SaveTheme(theme string) error {
	data, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path(ThemeKey), data, 0o644)
}
