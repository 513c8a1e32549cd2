package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kubev2v/docctl/internal/models"
)

const credentialsFileName = "credentials.json"

// DiskStore keeps the login record in <dir>/credentials.json. The record holds
// the key path, never the key material.
type DiskStore struct {
	dir string
	mu  sync.RWMutex
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) path() string {
	return filepath.Join(s.dir, credentialsFileName)
}

// Save replaces the record. The file is written next to the target and
// renamed so a failed write never leaves a truncated record.
func (s *DiskStore) Save(creds models.Credentials) error {
	if creds.SecretKeyPath == "" {
		return errors.New("secret key path is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, credentialsFileName+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path())
}

// Load returns ErrNotFound when login was never run or the record is empty.
func (s *DiskStore) Load() (*models.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var creds models.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path(), err)
	}
	if creds.SecretKeyPath == "" {
		return nil, ErrNotFound
	}
	return &creds, nil
}

// Delete is a no-op when nothing is stored.
func (s *DiskStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *DiskStore) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.path())
	return err == nil
}
