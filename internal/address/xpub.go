package address

import (
	"time"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/hdkey"
	"github.com/rusbywallet/rusby/internal/metrics"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// AccountKey is the extended public key of one account of one chain.
type AccountKey struct {
	Chain chain.ID `json:"chain"`
	Path  string   `json:"path"`
	XPub  string   `json:"xpub"`
}

func watchOnlyTemplate(id chain.ID) (hdkey.Template, error) {
	profile, err := id.Profile()
	if err != nil {
		return nil, err
	}
	if profile.Curve != hdkey.Secp256k1 {
		return nil, walleterr.WithDetails(walleterr.ErrUnsupportedChain, map[string]string{
			"chain":  string(id),
			"reason": "ed25519 keys have no public child derivation",
		})
	}
	return profile.Template, nil
}

// AccountXPub returns the account-level extended public key of a
// secp256k1 chain. Addresses below it can be derived without the seed.
func AccountXPub(seed []byte, id chain.ID, opts Options) (*AccountKey, error) {
	tmpl, err := watchOnlyTemplate(id)
	if err != nil {
		return nil, err
	}
	prefix, _, err := tmpl.SplitAtAccount(opts.Account, 0)
	if err != nil {
		return nil, err
	}
	xpub, err := hdkey.ExtendedPublicKey(seed, prefix, opts.network() == chain.Testnet)
	if err != nil {
		return nil, err
	}
	return &AccountKey{Chain: id, Path: prefix.String(), XPub: xpub}, nil
}

// FromXPub derives the address at opts.Index below an account xpub made
// by AccountXPub. opts.Account only labels the returned path.
func FromXPub(xpub string, id chain.ID, opts Options) (addr *Address, err error) {
	start := time.Now()
	defer func() { metrics.Global.RecordDerivation(time.Since(start), err) }()

	tmpl, err := watchOnlyTemplate(id)
	if err != nil {
		return nil, err
	}
	prefix, suffix, err := tmpl.SplitAtAccount(opts.Account, opts.Index)
	if err != nil {
		return nil, err
	}
	pub, err := hdkey.ChildPublicKey(xpub, suffix)
	if err != nil {
		return nil, err
	}
	encoded, err := FromPublicKey(id, pub, opts.network())
	if err != nil {
		return nil, err
	}

	return &Address{
		Chain:     id,
		Address:   encoded,
		Path:      append(prefix, suffix...).String(),
		PublicKey: pub,
	}, nil
}
