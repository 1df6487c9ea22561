package walletstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/rusbywallet/rusby/internal/fileutil"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// FileVersion is the store file format version.
	FileVersion = 1

	filePermissions = 0o600
)

type storeFile struct {
	Version int `json:"version"`
	*Store
}

// FileStorage persists a Store as JSON. Only encrypted seeds are written.
type FileStorage struct {
	path string
}

// NewFileStorage returns storage backed by the file at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the backing file path.
func (f *FileStorage) Path() string {
	return f.path
}

// Load reads the store. A missing file yields an empty store.
func (f *FileStorage) Load() (*Store, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading wallet store: %w", err)
	}

	file := storeFile{Store: NewStore()}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("parsing wallet store: %w", err))
	}
	if file.Version > FileVersion || file.Version < 1 {
		return nil, walleterr.WithDetails(walleterr.ErrUnsupportedVersion, map[string]string{
			"version": strconv.Itoa(file.Version),
		})
	}

	s := file.Store
	if len(s.Wallets) == 0 {
		s.ActiveIndex = NoActive
	} else if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Wallets) {
		s.ActiveIndex = 0
	}
	return s, nil
}

// Save writes the store atomically with owner-only permissions.
func (f *FileStorage) Save(s *Store) error {
	return fileutil.WriteJSON(f.path, storeFile{Version: FileVersion, Store: s}, filePermissions)
}
