package ripple

import (
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// TypePayment is the TransactionType of a payment.
	TypePayment uint16 = 0

	// FlagFullyCanonicalSig requires a low-S signature.
	FlagFullyCanonicalSig uint32 = 0x80000000

	// DefaultFee is the reference fee in drops.
	DefaultFee uint64 = 12
)

var (
	prefixSigning = []byte{'S', 'T', 'X', 0}
	prefixTxID    = []byte{'T', 'X', 'N', 0}
)

// Field codes of the fields a payment uses.
const (
	fieldTransactionType    = 2
	fieldFlags              = 2
	fieldSequence           = 4
	fieldDestinationTag     = 14
	fieldLastLedgerSequence = 27
	fieldAmount             = 1
	fieldFee                = 8
	fieldSigningPubKey      = 3
	fieldTxnSignature       = 4
	fieldAccount            = 1
	fieldDestination        = 3
)

// TxParams describe a native XRP payment. Sequence and the fee quote come
// from an RPC collaborator.
type TxParams struct {
	Sequence           uint32
	To                 string
	Amount             uint64 // drops
	Fee                uint64 // drops, DefaultFee when zero
	DestinationTag     *uint32
	LastLedgerSequence uint32 // omitted when zero

	// Balance, when set, must cover amount + fee.
	Balance *uint64
}

// Payment is a native XRP payment.
type Payment struct {
	Account            []byte
	Destination        []byte
	Amount             uint64
	Fee                uint64
	Sequence           uint32
	Flags              uint32
	DestinationTag     *uint32
	LastLedgerSequence uint32
	SigningPubKey      []byte
	TxnSignature       []byte
}

// NewPayment validates params and builds an unsigned payment from the
// account owning compressedPub.
func NewPayment(compressedPub []byte, p TxParams) (*Payment, error) {
	if len(compressedPub) != 33 {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 33, len(compressedPub))
	}
	dest, err := DecodeAddress(p.To)
	if err != nil {
		return nil, err
	}
	if p.Amount == 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "amount is zero"})
	}
	fee := p.Fee
	if fee == 0 {
		fee = DefaultFee
	}
	if p.Balance != nil {
		required := p.Amount + fee
		if required < p.Amount || required > *p.Balance {
			return nil, walleterr.InsufficientFunds(required, *p.Balance)
		}
	}

	return &Payment{
		Account:            rusbycrypto.Hash160(compressedPub),
		Destination:        dest,
		Amount:             p.Amount,
		Fee:                fee,
		Sequence:           p.Sequence,
		Flags:              FlagFullyCanonicalSig,
		DestinationTag:     p.DestinationTag,
		LastLedgerSequence: p.LastLedgerSequence,
		SigningPubKey:      compressedPub,
	}, nil
}

func (tx *Payment) fields() ([]field, error) {
	fields := []field{
		uint16Field(fieldTransactionType, TypePayment),
		uint32Field(fieldFlags, tx.Flags),
		uint32Field(fieldSequence, tx.Sequence),
	}
	if tx.DestinationTag != nil {
		fields = append(fields, uint32Field(fieldDestinationTag, *tx.DestinationTag))
	}
	if tx.LastLedgerSequence != 0 {
		fields = append(fields, uint32Field(fieldLastLedgerSequence, tx.LastLedgerSequence))
	}

	amount, err := amountField(fieldAmount, tx.Amount)
	if err != nil {
		return nil, err
	}
	fee, err := amountField(fieldFee, tx.Fee)
	if err != nil {
		return nil, err
	}
	fields = append(fields, amount, fee)

	for _, vl := range []struct {
		typeCode, code uint8
		data           []byte
		signing        bool
	}{
		{typeBlob, fieldSigningPubKey, tx.SigningPubKey, true},
		{typeAccountID, fieldAccount, tx.Account, true},
		{typeAccountID, fieldDestination, tx.Destination, true},
	} {
		f, err := vlField(vl.typeCode, vl.code, vl.data, vl.signing)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	if tx.TxnSignature != nil {
		f, err := vlField(typeBlob, fieldTxnSignature, tx.TxnSignature, false)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// SigningBlob is the canonical serialization without the signature.
func (tx *Payment) SigningBlob() ([]byte, error) {
	fields, err := tx.fields()
	if err != nil {
		return nil, err
	}
	return serialize(fields, true), nil
}

// SigningHash is SHA512Half("STX\0" || signing blob).
func (tx *Payment) SigningHash() ([]byte, error) {
	blob, err := tx.SigningBlob()
	if err != nil {
		return nil, err
	}
	return rusbycrypto.SHA512Half(append(append([]byte{}, prefixSigning...), blob...)), nil
}

// Blob is the full canonical serialization.
func (tx *Payment) Blob() ([]byte, error) {
	if tx.TxnSignature == nil {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "transaction is not signed"})
	}
	fields, err := tx.fields()
	if err != nil {
		return nil, err
	}
	return serialize(fields, false), nil
}

// TxID is SHA512Half("TXN\0" || blob) in uppercase hex.
func TxID(blob []byte) string {
	return strings.ToUpper(encoding.HexEncode(rusbycrypto.SHA512Half(append(append([]byte{}, prefixTxID...), blob...))))
}

// Sign builds, signs and serializes a payment with a 32-byte secp256k1 key.
func Sign(priv []byte, p TxParams) (*chain.SignedTransaction, error) {
	if len(priv) != rusbycrypto.PrivateKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", rusbycrypto.PrivateKeySize, len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	pub := key.PubKey().SerializeCompressed()
	key.Zero()

	tx, err := NewPayment(pub, p)
	if err != nil {
		return nil, err
	}
	hash, err := tx.SigningHash()
	if err != nil {
		return nil, err
	}
	sig, err := rusbycrypto.SignDER(priv, hash)
	if err != nil {
		return nil, err
	}
	tx.TxnSignature = sig

	blob, err := tx.Blob()
	if err != nil {
		return nil, err
	}
	return &chain.SignedTransaction{
		ChainID:  chain.Ripple,
		RawBytes: blob,
		TxHash:   TxID(blob),
	}, nil
}
