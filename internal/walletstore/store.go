package walletstore

import (
	"strconv"
	"time"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	"github.com/rusbywallet/rusby/internal/wallet"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// NoActive is the active index of an empty store.
const NoActive = -1

// ErrWalletExists indicates a wallet with that name already exists.
var ErrWalletExists = walleterr.WithSuggestion(walleterr.ErrInvalidInput, "choose a different wallet name")

// Entry is one stored wallet. Only the encrypted seed is kept.
type Entry struct {
	Name      string         `json:"name"`
	Seed      *EncryptedSeed `json:"encrypted_seed"`
	CreatedAt time.Time      `json:"created_at"`
}

// Summary describes a wallet without its seed.
type Summary struct {
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Active    bool      `json:"active"`
}

// Store is the ordered wallet list. It is not safe for concurrent use.
type Store struct {
	Wallets     []Entry `json:"wallets"`
	ActiveIndex int     `json:"active_index"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{ActiveIndex: NoActive}
}

func notFound(index int) error {
	return walleterr.WithDetails(walleterr.ErrNotFound, map[string]string{"wallet": strconv.Itoa(index)})
}

// CreateWallet encrypts seed under password, appends the wallet and makes
// it active. It returns the new wallet's index.
func (s *Store) CreateWallet(name string, seed, password []byte) (int, error) {
	if err := s.checkName(name); err != nil {
		return 0, err
	}
	if len(seed) != wallet.SeedSize {
		return 0, walleterr.LengthMismatch(walleterr.ErrInvalidInput, "seed", wallet.SeedSize, len(seed))
	}

	enc, err := Encrypt(seed, password)
	if err != nil {
		return 0, err
	}
	return s.appendEntry(Entry{Name: name, Seed: enc, CreatedAt: time.Now().UTC()}), nil
}

// ImportWallet appends an already encrypted seed, such as one read from a
// backup, and makes it active. password must open enc.
func (s *Store) ImportWallet(name string, enc *EncryptedSeed, createdAt time.Time, password []byte) (int, error) {
	if err := s.checkName(name); err != nil {
		return 0, err
	}

	seed, err := Decrypt(enc, password)
	if err != nil {
		return 0, err
	}
	n := seed.Len()
	seed.Destroy()
	if n != wallet.SeedSize {
		return 0, walleterr.LengthMismatch(walleterr.ErrInvalidInput, "seed", wallet.SeedSize, n)
	}

	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.appendEntry(Entry{Name: name, Seed: enc, CreatedAt: createdAt.UTC()}), nil
}

func (s *Store) appendEntry(e Entry) int {
	s.Wallets = append(s.Wallets, e)
	s.ActiveIndex = len(s.Wallets) - 1
	return s.ActiveIndex
}

func (s *Store) checkName(name string) error {
	if err := wallet.ValidateWalletName(name); err != nil {
		if suggestion := wallet.SuggestWalletName(name); suggestion != "" {
			err = walleterr.WithSuggestion(err, "try "+suggestion)
		}
		return err
	}
	if _, err := s.Find(name); err == nil {
		return walleterr.WithDetails(ErrWalletExists, map[string]string{"name": name})
	}
	return nil
}

// Find returns the index of the wallet called name.
func (s *Store) Find(name string) (int, error) {
	for i, e := range s.Wallets {
		if e.Name == name {
			return i, nil
		}
	}
	return 0, walleterr.WithDetails(walleterr.ErrNotFound, map[string]string{"wallet": name})
}

// Entry returns the wallet at index.
func (s *Store) Entry(index int) (*Entry, error) {
	if index < 0 || index >= len(s.Wallets) {
		return nil, notFound(index)
	}
	return &s.Wallets[index], nil
}

// List summarizes every wallet in order.
func (s *Store) List() []Summary {
	out := make([]Summary, 0, len(s.Wallets))
	for i, e := range s.Wallets {
		out = append(out, Summary{Index: i, Name: e.Name, CreatedAt: e.CreatedAt, Active: i == s.ActiveIndex})
	}
	return out
}

// Active returns the active wallet and its index.
func (s *Store) Active() (*Entry, int, error) {
	e, err := s.Entry(s.ActiveIndex)
	if err != nil {
		return nil, NoActive, walleterr.WithSuggestion(walleterr.ErrNotFound, "create a wallet first")
	}
	return e, s.ActiveIndex, nil
}

// SetActive selects the wallet at index.
func (s *Store) SetActive(index int) error {
	if _, err := s.Entry(index); err != nil {
		return err
	}
	s.ActiveIndex = index
	return nil
}

// OpenSeed decrypts the seed of the wallet at index. The caller must
// Destroy it.
func (s *Store) OpenSeed(index int, password []byte) (*rusbycrypto.SecureBytes, error) {
	e, err := s.Entry(index)
	if err != nil {
		return nil, err
	}
	return Decrypt(e.Seed, password)
}

// UnlockWallet decrypts the wallet at index and derives the address of
// each requested chain. The decrypted seed is wiped before returning.
func (s *Store) UnlockWallet(index int, password []byte, chains []chain.ID, opts address.Options) (map[chain.ID]string, error) {
	seed, err := s.OpenSeed(index, password)
	if err != nil {
		return nil, err
	}
	defer seed.Destroy()

	if len(chains) == 0 {
		chains = chain.All()
	}
	derived, err := address.DeriveMany(seed.Bytes(), chains, opts)
	if err != nil {
		return nil, err
	}

	out := make(map[chain.ID]string, len(derived))
	for id, addr := range derived {
		out[id] = addr.Address
	}
	return out, nil
}
