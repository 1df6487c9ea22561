package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rusbywallet/rusby/internal/fileutil"
	"github.com/rusbywallet/rusby/internal/walletstore"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// Extension is the file extension for backups.
	Extension = ".rusby"

	// DirPermissions is the permission mode for the backup directory.
	DirPermissions = 0o750

	// FilePermissions is the permission mode for backup files.
	FilePermissions = 0o600
)

// Service writes and reads backup files in one directory.
type Service struct {
	dir string
	now func() time.Time
}

// NewService creates a backup service rooted at dir.
func NewService(dir string) *Service {
	return &Service{dir: dir, now: time.Now}
}

// Create writes a backup of entry and returns its path.
func (s *Service) Create(entry *walletstore.Entry) (string, error) {
	now := s.now()
	data, err := Export(entry, now)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, DirPermissions); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", entry.Name, now.UTC().Format("2006-01-02-150405"), Extension)
	path := filepath.Join(s.dir, name)
	if err := fileutil.WriteAtomic(path, data, FilePermissions); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}
	return path, nil
}

// ReadFile returns the raw bytes of the backup at path.
func (s *Service) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the user
	if errors.Is(err, fs.ErrNotExist) {
		return nil, walleterr.WithDetails(walleterr.ErrNotFound, map[string]string{"backup": path})
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup file: %w", err)
	}
	return data, nil
}

// Read parses the backup at path.
func (s *Service) Read(path string) (*walletstore.EncryptedSeed, time.Time, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return Import(data)
}

// Restore reads the backup at path and adds it to store as name. The
// password must open the backup.
func (s *Service) Restore(store *walletstore.Store, path, name string, password []byte) (int, error) {
	enc, created, err := s.Read(path)
	if err != nil {
		return 0, err
	}
	return store.ImportWallet(name, enc, created, password)
}

// List returns the backup file names in the directory, sorted.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == Extension {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Path returns the full path of a backup file name.
func (s *Service) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}
