package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the collection as a single JSON file. Saves go
// through a temp file in the same directory followed by a rename, so
// a concurrent Load never observes a partial write.
type FileStore struct {
	path string
}

// NewFileStore creates the parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) ([]*Patient, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []*Patient{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var patients []*Patient
	if err := json.Unmarshal(raw, &patients); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return patients, nil
}

func (s *FileStore) Save(_ context.Context, patients []*Patient) error {
	raw, err := json.MarshalIndent(patients, "", "  ")
	if err != nil {
		return fmt.Errorf("encode patients: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
