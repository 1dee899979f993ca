package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/school-portal/pkg/storage"
)

// FileKV stores each key as a JSON file in a directory.
type FileKV struct {
	files *storage.LocalStorage
}

// NewFileKV constructs a file-backed store.
func NewFileKV(files *storage.LocalStorage) *FileKV {
	return &FileKV{files: files}
}

// Load implements KVStore.
func (f *FileKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := f.files.Read(fileName(key))
	if err != nil {
		return nil, false, fmt.Errorf("file load %s: %w", key, err)
	}
	return value, found, nil
}

// Save implements KVStore.
func (f *FileKV) Save(ctx context.Context, key string, value []byte) error {
	if _, err := f.files.Save(fileName(key), value); err != nil {
		return fmt.Errorf("file save %s: %w", key, err)
	}
	return nil
}

// Close implements KVStore.
func (f *FileKV) Close() error { return nil }

func fileName(key string) string {
	return key + ".json"
}
