package certificate

import (
	"os"
	"path/filepath"
)

// ArtifactStore persists rendered certificate documents addressed by
// certificate id. Once a certificate is issued no writer touches its key again.
type ArtifactStore interface {
	Put(key string, data []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// DiskStore keeps artifacts on the local filesystem under one directory
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Put(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0644)
}

func (s *DiskStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *DiskStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".pdf")
}
