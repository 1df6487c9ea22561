// Package signer turns a seed and a per-chain request into a signed,
// broadcast-ready transaction in one call. Key material is derived,
// used and wiped inside the call on every return path.
package signer

import (
	"time"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/cosmos"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/chain/ripple"
	"github.com/rusbywallet/rusby/internal/chain/solana"
	"github.com/rusbywallet/rusby/internal/chain/stellar"
	"github.com/rusbywallet/rusby/internal/chain/ton"
	"github.com/rusbywallet/rusby/internal/chain/tron"
	"github.com/rusbywallet/rusby/internal/chain/utxo"
	"github.com/rusbywallet/rusby/internal/metrics"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Logger receives signing events. Messages carry the chain and the tx
// hash only.
type Logger interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Request is a transfer on one chain. Exactly the field matching the
// chain's family must be set.
type Request struct {
	Chain chain.ID

	EVM     *evm.TxParams
	UTXO    *utxo.TxParams
	Cosmos  *cosmos.TxParams
	Ripple  *ripple.TxParams
	Stellar *stellar.TxParams
	Solana  *solana.TxParams
	TON     *ton.TxParams
	Tron    *tron.TxParams
}

func (r Request) has(family chain.Family) bool {
	switch family {
	case chain.FamilyEVM:
		return r.EVM != nil
	case chain.FamilyUTXO:
		return r.UTXO != nil
	case chain.FamilyCosmos:
		return r.Cosmos != nil
	case chain.FamilyRipple:
		return r.Ripple != nil
	case chain.FamilyStellar:
		return r.Stellar != nil
	case chain.FamilySolana:
		return r.Solana != nil
	case chain.FamilyTON:
		return r.TON != nil
	case chain.FamilyTron:
		return r.Tron != nil
	}
	return false
}

// Signer signs requests. The zero value is not usable; use New.
type Signer struct {
	log Logger
	now func() time.Time
}

// New returns a Signer logging to log. A nil log discards events.
func New(log Logger) *Signer {
	if log == nil {
		log = nopLogger{}
	}
	return &Signer{log: log, now: time.Now}
}

var defaultSigner = New(nil)

// Sign derives the key for req.Chain at opts, then builds, hashes, signs
// and serializes the transaction.
func Sign(seed []byte, req Request, opts address.Options) (*chain.SignedTransaction, error) {
	return defaultSigner.Sign(seed, req, opts)
}

// Sign derives the key for req.Chain at opts, then builds, hashes, signs
// and serializes the transaction. On error no transaction is returned.
func (s *Signer) Sign(seed []byte, req Request, opts address.Options) (tx *chain.SignedTransaction, err error) {
	start := time.Now()
	defer func() {
		metrics.Global.RecordSignature(string(req.Chain), time.Since(start), err)
		if err != nil {
			s.log.Error("sign %s: %v", req.Chain, err)
			tx = nil
			return
		}
		s.log.Debug("signed %s tx %s", req.Chain, tx.TxHash)
	}()

	profile, err := req.Chain.Profile()
	if err != nil {
		return nil, err
	}
	if !req.has(profile.Family) {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"chain":  string(req.Chain),
			"reason": "missing " + string(profile.Family) + " parameters",
		})
	}
	network := opts.Network
	if network == "" {
		network = chain.Mainnet
	}

	kp, err := address.DeriveKey(seed, req.Chain, opts)
	if err != nil {
		return nil, err
	}
	return s.signWithKey(req, network, kp)
}

// signWithKey signs req with kp and wipes kp on every return path.
func (s *Signer) signWithKey(req Request, network chain.Network, kp *address.KeyPair) (*chain.SignedTransaction, error) {
	defer kp.Zero()
	return s.sign(req, network, kp.PrivateKey)
}

func (s *Signer) sign(req Request, network chain.Network, priv []byte) (*chain.SignedTransaction, error) {
	switch req.Chain.Family() {
	case chain.FamilyEVM:
		return evm.SignTransaction(req.Chain, priv, *req.EVM)
	case chain.FamilyUTXO:
		p, err := utxo.ParamsFor(req.Chain, network)
		if err != nil {
			return nil, err
		}
		tx, _, err := p.Sign(priv, *req.UTXO)
		return tx, err
	case chain.FamilyCosmos:
		p, err := cosmos.ParamsFor(req.Chain, network)
		if err != nil {
			return nil, err
		}
		return p.Sign(priv, *req.Cosmos)
	case chain.FamilyRipple:
		return ripple.Sign(priv, *req.Ripple)
	case chain.FamilyStellar:
		return stellar.Sign(priv, network, *req.Stellar)
	case chain.FamilySolana:
		return solana.Sign(priv, *req.Solana)
	case chain.FamilyTON:
		return ton.Sign(priv, *req.TON)
	case chain.FamilyTron:
		params := *req.Tron
		if params.Now.IsZero() {
			params.Now = s.now()
		}
		return tron.Sign(priv, network, params)
	default:
		return nil, walleterr.WithDetails(walleterr.ErrUnsupportedChain, map[string]string{"chain": string(req.Chain)})
	}
}

// PersonalSignature is an EIP-191 signature with the signing address.
type PersonalSignature struct {
	Address   string `json:"address"`
	Signature []byte `json:"-"`
}

// SignPersonalMessage signs msg with the Ethereum key at opts as
// personal_sign does. v is 27 or 28.
func SignPersonalMessage(seed, msg []byte, opts address.Options) (*PersonalSignature, error) {
	kp, err := address.DeriveKey(seed, chain.Ethereum, opts)
	if err != nil {
		return nil, err
	}
	return signPersonal(kp, msg)
}

func signPersonal(kp *address.KeyPair, msg []byte) (*PersonalSignature, error) {
	defer kp.Zero()

	sig, err := evm.SignPersonalMessage(kp.PrivateKey, msg)
	if err != nil {
		return nil, err
	}
	addr, err := address.FromPublicKey(chain.Ethereum, kp.PublicKey, chain.Mainnet)
	if err != nil {
		return nil, err
	}
	return &PersonalSignature{Address: addr, Signature: sig}, nil
}
