package ton

import (
	"encoding/binary"
	"math"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// DefaultWalletID is the wallet-v4r2 subwallet id for workchain 0.
	DefaultWalletID uint32 = 698983191

	// DefaultSendMode pays fees separately and ignores action errors.
	DefaultSendMode uint8 = 3

	opSimpleSend uint8 = 0
)

// TxParams describe a single TON transfer. Seqno comes from an RPC
// collaborator.
type TxParams struct {
	Seqno      uint32
	ValidUntil uint32 // unix seconds
	To         string
	Amount     uint64 // nanotons
	Comment    string

	// Bounce overrides the bounce flag carried by the destination address.
	Bounce *bool

	Mode     uint8  // DefaultSendMode when zero
	WalletID uint32 // DefaultWalletID when zero

	// Balance, when set, must cover the amount.
	Balance *uint64
}

// Transfer is the signed body of an external message.
type Transfer struct {
	WalletID   uint32
	ValidUntil uint32
	Seqno      uint32
	Mode       uint8
	To         Address
	Amount     uint64
	Bounce     bool
	Comment    string
}

// NewTransfer validates params and builds the unsigned transfer.
func NewTransfer(p TxParams) (*Transfer, error) {
	to, err := DecodeAddress(p.To)
	if err != nil {
		return nil, err
	}
	if p.Amount == 0 {
		return nil, invalidTx("amount is zero")
	}
	if p.ValidUntil == 0 {
		return nil, invalidTx("valid_until is required")
	}
	if len(p.Comment) > math.MaxUint16 {
		return nil, invalidTx("comment too long")
	}
	if p.Balance != nil && p.Amount > *p.Balance {
		return nil, walleterr.InsufficientFunds(p.Amount, *p.Balance)
	}

	t := &Transfer{
		WalletID:   p.WalletID,
		ValidUntil: p.ValidUntil,
		Seqno:      p.Seqno,
		Mode:       p.Mode,
		To:         *to,
		Amount:     p.Amount,
		Bounce:     to.Bounceable,
		Comment:    p.Comment,
	}
	if t.WalletID == 0 {
		t.WalletID = DefaultWalletID
	}
	if t.Mode == 0 {
		t.Mode = DefaultSendMode
	}
	if p.Bounce != nil {
		t.Bounce = *p.Bounce
	}
	return t, nil
}

func invalidTx(reason string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": reason})
}

// Body is wallet_id | valid_until | seqno | op | mode | dest workchain |
// dest hash | amount | bounce | comment length | comment, big-endian.
func (t *Transfer) Body() []byte {
	out := make([]byte, 0, 4*3+2+1+hashLength+8+1+2+len(t.Comment))
	out = binary.BigEndian.AppendUint32(out, t.WalletID)
	out = binary.BigEndian.AppendUint32(out, t.ValidUntil)
	out = binary.BigEndian.AppendUint32(out, t.Seqno)
	out = append(out, opSimpleSend, t.Mode, byte(t.To.Workchain))
	out = append(out, t.To.Hash...)
	out = binary.BigEndian.AppendUint64(out, t.Amount)
	bounce := byte(0)
	if t.Bounce {
		bounce = 1
	}
	out = append(out, bounce)
	out = binary.BigEndian.AppendUint16(out, uint16(len(t.Comment)))
	return append(out, t.Comment...)
}

// Sign signs the body with a 32-byte Ed25519 seed and returns
// signature || body. tx_hash is 0x-hex SHA256 of the message.
func Sign(priv []byte, p TxParams) (*chain.SignedTransaction, error) {
	if _, err := rusbycrypto.Ed25519PublicKey(priv); err != nil {
		return nil, err
	}
	t, err := NewTransfer(p)
	if err != nil {
		return nil, err
	}

	body := t.Body()
	sig, err := rusbycrypto.SignEd25519(priv, body)
	if err != nil {
		return nil, err
	}
	msg := append(sig, body...)

	return &chain.SignedTransaction{
		ChainID:  chain.TON,
		RawBytes: msg,
		TxHash:   encoding.HexEncode0x(rusbycrypto.SHA256(msg)),
	}, nil
}
