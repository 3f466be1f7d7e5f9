package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hoyolink/hoyolink/internal/models"
)

// FileStore persists user records as a single JSON object mapping
// user ID to record. The file is read fresh on every operation and
// rewritten whole on every mutation; mu serializes writers so a
// read-modify-write is atomic within the process.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore at path, creating an empty file
// if none exists.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := fs.write(map[string]models.UserRecord{}); err != nil {
			return nil, fmt.Errorf("create users file: %w", err)
		}
	}
	return fs, nil
}

func (fs *FileStore) read() (map[string]models.UserRecord, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.UserRecord{}, nil
		}
		return nil, err
	}
	defer f.Close()

	users := map[string]models.UserRecord{}
	if err := json.NewDecoder(f).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return users, nil
}

func (fs *FileStore) write(users map[string]models.UserRecord) error {
	f, err := os.Create(fs.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(users)
}

// Get loads the record for userID from disk.
func (fs *FileStore) Get(ctx context.Context, userID string) (models.UserRecord, bool, error) {
	users, err := fs.read()
	if err != nil {
		return models.UserRecord{}, false, err
	}
	rec, ok := users[userID]
	return rec, ok, nil
}

// Put stores rec under userID, rewriting the whole file.
func (fs *FileStore) Put(ctx context.Context, userID string, rec models.UserRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	users, err := fs.read()
	if err != nil {
		return err
	}
	users[userID] = rec
	return fs.write(users)
}

// Delete destroys the record for userID.
func (fs *FileStore) Delete(ctx context.Context, userID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	users, err := fs.read()
	if err != nil {
		return err
	}
	delete(users, userID)
	return fs.write(users)
}

// Count returns the number of stored records.
func (fs *FileStore) Count(ctx context.Context) (int, error) {
	users, err := fs.read()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
