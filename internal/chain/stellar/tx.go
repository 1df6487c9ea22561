package stellar

import (
	"crypto/ed25519"
	"math"
	"math/big"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Network passphrases.
const (
	PublicPassphrase  = "Public Global Stellar Network ; September 2015"
	TestnetPassphrase = "Test SDF Network ; September 2015"
)

const (
	// BaseFee is the minimum per-operation fee in stroops.
	BaseFee uint32 = 100

	// MaxMemoText is the longest text memo in bytes.
	MaxMemoText = 28
)

// XDR discriminants.
const (
	envelopeTypeTx = 2

	keyTypeEd25519 = 0

	precondNone = 0
	precondTime = 1

	memoNone = 0
	memoText = 1
	memoID   = 2

	opCreateAccount = 0
	opPayment       = 1

	assetTypeNative = 0
)

// Passphrase returns the network passphrase.
func Passphrase(network chain.Network) string {
	if network.IsTestnet() {
		return TestnetPassphrase
	}
	return PublicPassphrase
}

// NetworkID is SHA256 of the passphrase.
func NetworkID(network chain.Network) []byte {
	return rusbycrypto.SHA256([]byte(Passphrase(network)))
}

// TxParams describe a native XLM transfer. Sequence is the transaction's
// sequence number (account sequence + 1) supplied by an RPC collaborator.
type TxParams struct {
	Sequence int64
	To       string
	Amount   int64  // stroops
	Fee      uint32 // BaseFee when zero

	// CreateAccount funds a new destination with a create_account operation
	// instead of a payment.
	CreateAccount bool

	MemoText string
	MemoID   *uint64

	// MinTime and MaxTime add time bounds when MaxTime is set.
	MinTime uint64
	MaxTime uint64

	// Balance, when set, must cover amount + fee.
	Balance *int64
}

// Transaction is a single-operation native transfer.
type Transaction struct {
	Source        []byte
	Fee           uint32
	Sequence      int64
	MinTime       uint64
	MaxTime       uint64
	MemoText      string
	MemoID        *uint64
	Destination   []byte
	Amount        int64
	CreateAccount bool
}

// NewTransaction validates params and builds a transaction from source.
func NewTransaction(source []byte, p TxParams) (*Transaction, error) {
	if len(source) != ed25519.PublicKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", ed25519.PublicKeySize, len(source))
	}
	dest, err := DecodeAddress(p.To)
	if err != nil {
		return nil, err
	}
	if p.Amount <= 0 {
		return nil, invalidTx("amount must be positive")
	}
	if p.Sequence <= 0 {
		return nil, invalidTx("sequence must be positive")
	}
	if len(p.MemoText) > MaxMemoText {
		return nil, invalidTx("memo text longer than 28 bytes")
	}
	if p.MemoText != "" && p.MemoID != nil {
		return nil, invalidTx("memo text and memo id are exclusive")
	}
	if p.MaxTime != 0 && p.MinTime > p.MaxTime {
		return nil, invalidTx("min time after max time")
	}
	fee := p.Fee
	if fee == 0 {
		fee = BaseFee
	}
	if p.Amount > math.MaxInt64-int64(fee) {
		return nil, invalidTx("amount plus fee overflows")
	}
	if p.Balance != nil {
		required := p.Amount + int64(fee)
		if required > *p.Balance {
			return nil, walleterr.InsufficientFundsBig(big.NewInt(required), big.NewInt(*p.Balance))
		}
	}

	return &Transaction{
		Source:        source,
		Fee:           fee,
		Sequence:      p.Sequence,
		MinTime:       p.MinTime,
		MaxTime:       p.MaxTime,
		MemoText:      p.MemoText,
		MemoID:        p.MemoID,
		Destination:   dest,
		Amount:        p.Amount,
		CreateAccount: p.CreateAccount,
	}, nil
}

func invalidTx(reason string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": reason})
}

func (tx *Transaction) encode(w *xdrWriter) {
	// MuxedAccount source
	w.int32(keyTypeEd25519)
	w.fixed(tx.Source)
	w.uint32(tx.Fee)
	w.int64(tx.Sequence)

	if tx.MaxTime != 0 {
		w.int32(precondTime)
		w.uint64(tx.MinTime)
		w.uint64(tx.MaxTime)
	} else {
		w.int32(precondNone)
	}

	switch {
	case tx.MemoText != "":
		w.int32(memoText)
		w.opaque([]byte(tx.MemoText))
	case tx.MemoID != nil:
		w.int32(memoID)
		w.uint64(*tx.MemoID)
	default:
		w.int32(memoNone)
	}

	w.uint32(1) // one operation
	w.uint32(0) // no operation source account
	if tx.CreateAccount {
		w.int32(opCreateAccount)
		w.int32(keyTypeEd25519)
		w.fixed(tx.Destination)
		w.int64(tx.Amount)
	} else {
		w.int32(opPayment)
		w.int32(keyTypeEd25519)
		w.fixed(tx.Destination)
		w.int32(assetTypeNative)
		w.int64(tx.Amount)
	}

	w.int32(0) // ext
}

// XDR is the transaction body.
func (tx *Transaction) XDR() []byte {
	var w xdrWriter
	tx.encode(&w)
	return w.bytes()
}

// SignaturePayload is network_id || ENVELOPE_TYPE_TX || body.
func (tx *Transaction) SignaturePayload(network chain.Network) []byte {
	var w xdrWriter
	w.fixed(NetworkID(network))
	w.int32(envelopeTypeTx)
	tx.encode(&w)
	return w.bytes()
}

// Hash is SHA256 of the signature payload.
func (tx *Transaction) Hash(network chain.Network) []byte {
	return rusbycrypto.SHA256(tx.SignaturePayload(network))
}

// Envelope serializes a v1 envelope carrying one decorated signature. The
// hint is the last four bytes of the signer's public key.
func (tx *Transaction) Envelope(signature []byte) []byte {
	var w xdrWriter
	w.int32(envelopeTypeTx)
	tx.encode(&w)
	w.uint32(1)
	w.fixed(tx.Source[len(tx.Source)-4:])
	w.opaque(signature)
	return w.bytes()
}

// Sign builds, signs and serializes a transfer with a 32-byte Ed25519 seed.
func Sign(priv []byte, network chain.Network, p TxParams) (*chain.SignedTransaction, error) {
	pub, err := rusbycrypto.Ed25519PublicKey(priv)
	if err != nil {
		return nil, err
	}
	tx, err := NewTransaction(pub, p)
	if err != nil {
		return nil, err
	}

	hash := tx.Hash(network)
	sig, err := rusbycrypto.SignEd25519(priv, hash)
	if err != nil {
		return nil, err
	}

	return &chain.SignedTransaction{
		ChainID:  chain.Stellar,
		RawBytes: tx.Envelope(sig),
		TxHash:   encoding.HexEncode(hash),
	}, nil
}
