package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrModelNotFound = errors.New("model artifact not found")
)

// Store persists the single current model artifact. Save fully replaces
// whatever was stored before.
type Store interface {
	Save(model *Model) error
	Load() (*Model, error)
}

// FileStore keeps the artifact as one JSON document on disk
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path is the artifact location
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the model to a temporary file next to the artifact and renames
// it into place, so readers see either the old or the new model.
func (s *FileStore) Save(model *Model) error {
	if err := model.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := json.NewEncoder(tmp).Encode(model); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace model artifact: %w", err)
	}

	return nil
}

// Load reads the artifact. ErrModelNotFound means nothing has been trained yet.
func (s *FileStore) Load() (*Model, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var model Model
	if err := json.NewDecoder(f).Decode(&model); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	return &model, nil
}

// MemoryStore holds the artifact in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	model *Model
}

// NewMemoryStore returns an empty store, optionally seeded with a model
func NewMemoryStore(seed *Model) *MemoryStore {
	return &MemoryStore{model: seed}
}

func (s *MemoryStore) Save(model *Model) error {
	if err := model.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
	return nil
}

func (s *MemoryStore) Load() (*Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.model == nil {
		return nil, ErrModelNotFound
	}
	return s.model, nil
}
