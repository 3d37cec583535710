package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"classifier-pipeline/core/models"
)

// Durable record keys. Each key names a single-slot text record: the whole
// record is the value, trimmed of its trailing newline.
const (
	KeyJobID        = "job_id"
	KeyModelVersion = "version_cloud"
)

// StateStore persists small pieces of cross-invocation state. Single
// writer, single reader: records are overwritten wholesale.
type StateStore interface {
	Read(key string) (string, error)
	Write(key, value string) error
}

// FileStore keeps each record as a plain text file under dir
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed state store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Read returns the stored value for key. A missing record is a
// MissingStateError, not a crash: later stages depend on earlier stages
// having written it.
func (s *FileStore) Read(key string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &models.MissingStateError{Key: key}
		}
		return "", fmt.Errorf("failed to read %s record: %w", key, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Write overwrites the record for key. The value is staged in a temp file
// and renamed into place so a reader never observes a torn record.
func (s *FileStore) Write(key, value string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to stage %s record: %w", key, err)
	}
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to stage %s record: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to stage %s record: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s record: %w", key, err)
	}
	return nil
}

// MemoryStore is an in-memory StateStore for tests
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]string
}

// NewMemoryStore creates an empty in-memory state store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

func (s *MemoryStore) Read(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[key]
	if !ok {
		return "", &models.MissingStateError{Key: key}
	}
	return value, nil
}

func (s *MemoryStore) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}
