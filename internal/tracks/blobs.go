package tracks

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// BlobStore keeps uploaded audio payloads as id-addressed files on disk, so
// the registry record stays small enough to round-trip through the key-value
// store.
type BlobStore struct {
	dir string
}

// NewBlobStore creates the blob directory if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

func (b *BlobStore) path(id int64) string {
	return filepath.Join(b.dir, strconv.FormatInt(id, 10))
}

// Put writes a payload under the given track ID.
func (b *BlobStore) Put(id int64, data []byte) error {
	if err := os.WriteFile(b.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %d: %w", id, err)
	}
	return nil
}

// Get reads the payload for a track ID.
func (b *BlobStore) Get(id int64) ([]byte, error) {
	data, err := os.ReadFile(b.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %d: %w", id, err)
	}
	return data, nil
}

// Delete removes the payload for a track ID. Deleting an absent blob is not
// an error.
func (b *BlobStore) Delete(id int64) error {
	if err := os.Remove(b.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %d: %w", id, err)
	}
	return nil
}
