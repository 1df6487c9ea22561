// Package address is the chain address registry: it derives keys and
// addresses for every supported chain from a seed, and decodes and
// validates addresses at the boundary.
package address

import (
	"errors"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/cosmos"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/chain/ripple"
	"github.com/rusbywallet/rusby/internal/chain/solana"
	"github.com/rusbywallet/rusby/internal/chain/stellar"
	"github.com/rusbywallet/rusby/internal/chain/ton"
	"github.com/rusbywallet/rusby/internal/chain/tron"
	"github.com/rusbywallet/rusby/internal/chain/utxo"
	"github.com/rusbywallet/rusby/internal/hdkey"
	"github.com/rusbywallet/rusby/internal/metrics"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Options select the account, address index and network encoding.
type Options struct {
	Account uint32
	Index   uint32
	Network chain.Network
}

func (o Options) network() chain.Network {
	if o.Network == "" {
		return chain.Mainnet
	}
	return o.Network
}

// Address is a derived address with the path it came from.
type Address struct {
	Chain     chain.ID `json:"chain"`
	Address   string   `json:"address"`
	Path      string   `json:"path"`
	PublicKey []byte   `json:"-"`
}

// KeyPair holds key material for the signer. Callers must Zero it.
type KeyPair struct {
	Chain      chain.ID
	Curve      hdkey.Curve
	Path       hdkey.Path
	PrivateKey []byte
	PublicKey  []byte // compressed secp256k1 or raw Ed25519
}

// Zero wipes the private key.
func (k *KeyPair) Zero() {
	if k == nil {
		return
	}
	rusbycrypto.Zero(k.PrivateKey)
}

// String never renders key material.
func (k *KeyPair) String() string {
	return "KeyPair(" + string(k.Chain) + " " + k.Path.String() + ")"
}

// GoString never renders key material.
func (k *KeyPair) GoString() string {
	return k.String()
}

// DeriveKey derives the key of chain id at the path selected by opts.
func DeriveKey(seed []byte, id chain.ID, opts Options) (*KeyPair, error) {
	profile, err := id.Profile()
	if err != nil {
		return nil, err
	}
	path, err := profile.Template.Path(opts.Account, opts.Index)
	if err != nil {
		return nil, err
	}
	key, err := hdkey.Derive(seed, profile.Curve, path)
	if err != nil {
		return nil, err
	}
	rusbycrypto.Zero(key.ChainCode)

	return &KeyPair{
		Chain:      id,
		Curve:      profile.Curve,
		Path:       path,
		PrivateKey: key.PrivateKey,
		PublicKey:  key.PublicKey(),
	}, nil
}

// Derive returns the address of chain id at the path selected by opts.
// The private key never leaves this call.
func Derive(seed []byte, id chain.ID, opts Options) (addr *Address, err error) {
	start := time.Now()
	defer func() { metrics.Global.RecordDerivation(time.Since(start), err) }()

	kp, err := DeriveKey(seed, id, opts)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	encoded, err := FromPublicKey(id, kp.PublicKey, opts.network())
	if err != nil {
		return nil, err
	}
	return &Address{
		Chain:     id,
		Address:   encoded,
		Path:      kp.Path.String(),
		PublicKey: kp.PublicKey,
	}, nil
}

// DeriveMany derives one address per chain in ids, failing on the first
// error.
func DeriveMany(seed []byte, ids []chain.ID, opts Options) (map[chain.ID]*Address, error) {
	out := make(map[chain.ID]*Address, len(ids))
	for _, id := range ids {
		addr, err := Derive(seed, id, opts)
		if err != nil {
			return nil, walleterr.Wrap(err, "derive %s", id)
		}
		out[id] = addr
	}
	return out, nil
}

func uncompressed(compressed []byte) ([]byte, error) {
	pub, err := secp256k1.ParsePubKey(compressed)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, err)
	}
	return pub.SerializeUncompressed(), nil
}

// FromPublicKey encodes a public key (compressed secp256k1 or raw Ed25519)
// as an address of chain id.
func FromPublicKey(id chain.ID, pub []byte, network chain.Network) (string, error) {
	switch id.Family() {
	case chain.FamilyEVM:
		full, err := uncompressed(pub)
		if err != nil {
			return "", err
		}
		return evm.DeriveAddress(full)
	case chain.FamilyUTXO:
		p, err := utxo.ParamsFor(id, network)
		if err != nil {
			return "", err
		}
		return p.DeriveAddress(pub)
	case chain.FamilyTron:
		full, err := uncompressed(pub)
		if err != nil {
			return "", err
		}
		return tron.DeriveAddress(full, network)
	case chain.FamilyCosmos:
		p, err := cosmos.ParamsFor(id, network)
		if err != nil {
			return "", err
		}
		return p.DeriveAddress(pub)
	case chain.FamilyRipple:
		return ripple.DeriveAddress(pub)
	case chain.FamilySolana:
		return solana.DeriveAddress(pub)
	case chain.FamilyStellar:
		return stellar.DeriveAddress(pub)
	case chain.FamilyTON:
		return ton.DeriveAddress(pub, network)
	default:
		_, err := id.Profile()
		return "", err
	}
}

// Payload returns what an address of chain id commits to for pub: the
// 20-byte hash for secp256k1 chains, the public key for Solana and
// Stellar, and SHA256(pubkey) for TON.
func Payload(id chain.ID, pub []byte) ([]byte, error) {
	switch id.Family() {
	case chain.FamilyEVM, chain.FamilyTron:
		full, err := uncompressed(pub)
		if err != nil {
			return nil, err
		}
		return evm.AddressFromPublicKey(full)
	case chain.FamilyUTXO, chain.FamilyRipple:
		if len(pub) != 33 {
			return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 33, len(pub))
		}
		return rusbycrypto.Hash160(pub), nil
	case chain.FamilyCosmos:
		return cosmos.AddressPayload(pub)
	case chain.FamilySolana, chain.FamilyStellar:
		if len(pub) != 32 {
			return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 32, len(pub))
		}
		return append([]byte(nil), pub...), nil
	case chain.FamilyTON:
		return ton.AccountHash(pub)
	default:
		_, err := id.Profile()
		return nil, err
	}
}

// Decode parses addr as an address of chain id on network and returns its
// payload (see Payload). Every failure is an invalid-address error.
func Decode(id chain.ID, addr string, network chain.Network) ([]byte, error) {
	if network == "" {
		network = chain.Mainnet
	}
	payload, err := decode(id, addr, network)
	if err != nil && !errors.Is(err, walleterr.ErrInvalidAddress) && !errors.Is(err, walleterr.ErrUnsupportedChain) {
		err = walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	return payload, err
}

func decode(id chain.ID, addr string, network chain.Network) ([]byte, error) {
	switch id.Family() {
	case chain.FamilyEVM:
		return evm.ParseAddress(addr)
	case chain.FamilyUTXO:
		p, err := utxo.ParamsFor(id, network)
		if err != nil {
			return nil, err
		}
		dest, err := p.DecodeAddress(addr)
		if err != nil {
			return nil, err
		}
		return dest.Hash, nil
	case chain.FamilyTron:
		raw, err := tron.DecodeAddress(addr, network)
		if err != nil {
			return nil, err
		}
		return raw[1:], nil
	case chain.FamilyCosmos:
		p, err := cosmos.ParamsFor(id, network)
		if err != nil {
			return nil, err
		}
		return p.DecodeAddress(addr)
	case chain.FamilyRipple:
		return ripple.DecodeAddress(addr)
	case chain.FamilySolana:
		return solana.DecodeAddress(addr)
	case chain.FamilyStellar:
		return stellar.DecodeAddress(addr)
	case chain.FamilyTON:
		a, err := ton.DecodeAddress(addr)
		if err != nil {
			return nil, err
		}
		if a.Testnet && !network.IsTestnet() {
			return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
				"reason": "testnet address used on mainnet",
			})
		}
		return a.Hash, nil
	default:
		_, err := id.Profile()
		return nil, err
	}
}

// Validate reports whether addr is a well-formed address of chain id.
func Validate(id chain.ID, addr string, network chain.Network) error {
	_, err := Decode(id, addr, network)
	return err
}
