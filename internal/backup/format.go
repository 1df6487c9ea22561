// Package backup converts wallet entries to and from the portable backup
// file. Backups carry the encrypted seed only.
package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/walletstore"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// Version is the newest backup format this build reads and the one it writes.
	Version = 1

	// App identifies backups written by rusby.
	App = "rusby-wallet"
)

// ErrUnknownApp indicates a backup written by another application.
var ErrUnknownApp = walleterr.WithSuggestion(walleterr.ErrFormat, "the file is not a rusby wallet backup")

// File is the backup file layout. EncryptedData is Base64 of the JSON
// encrypted seed.
type File struct {
	Version       uint8  `json:"version"`
	App           string `json:"app"`
	CreatedAt     uint64 `json:"created_at"`
	EncryptedData string `json:"encrypted_data"`
}

// Export serializes entry as a backup stamped with now.
func Export(entry *walletstore.Entry, now time.Time) ([]byte, error) {
	if entry == nil || entry.Seed == nil {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "wallet has no encrypted seed"})
	}

	inner, err := json.Marshal(entry.Seed)
	if err != nil {
		return nil, fmt.Errorf("encoding encrypted seed: %w", err)
	}

	created := now.Unix()
	if created < 0 {
		created = 0
	}

	data, err := json.MarshalIndent(File{
		Version:       Version,
		App:           App,
		CreatedAt:     uint64(created),
		EncryptedData: encoding.Base64Encode(inner),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Import parses a backup and returns its encrypted seed and creation time.
// Nothing is decrypted.
func Import(data []byte) (*walletstore.EncryptedSeed, time.Time, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, time.Time{}, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("parsing backup: %w", err))
	}

	if f.App != App {
		return nil, time.Time{}, walleterr.WithDetails(ErrUnknownApp, map[string]string{"app": f.App})
	}
	if f.Version > Version || f.Version == 0 {
		return nil, time.Time{}, walleterr.WithDetails(walleterr.ErrUnsupportedVersion, map[string]string{
			"version":   strconv.Itoa(int(f.Version)),
			"supported": strconv.Itoa(Version),
		})
	}

	inner, err := encoding.Base64Decode(f.EncryptedData)
	if err != nil {
		return nil, time.Time{}, walleterr.Wrap(err, "encrypted data")
	}

	var enc walletstore.EncryptedSeed
	if err := json.Unmarshal(inner, &enc); err != nil {
		return nil, time.Time{}, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("parsing encrypted seed: %w", err))
	}
	if len(enc.Salt) != walletstore.SaltSize {
		return nil, time.Time{}, walleterr.LengthMismatch(walleterr.ErrFormat, "salt", walletstore.SaltSize, len(enc.Salt))
	}

	return &enc, time.Unix(int64(f.CreatedAt), 0).UTC(), nil //nolint:gosec // G115: unix seconds fit in int64
}
