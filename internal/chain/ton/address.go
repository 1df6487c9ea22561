// Package ton encodes user-friendly TON addresses and signs transfers as
// simplified wallet-v4r2 external messages.
package ton

import (
	"crypto/ed25519"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Address tag bits.
const (
	tagBounceable    byte = 0x11
	tagNonBounceable byte = 0x51
	flagTestnet      byte = 0x80
)

const (
	friendlyLength = 36
	hashLength     = 32
)

// Address is a decoded TON account address.
type Address struct {
	Workchain  int8
	Hash       []byte
	Bounceable bool
	Testnet    bool
}

// AccountHash is SHA256 of the wallet public key.
func AccountHash(pub []byte) ([]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", ed25519.PublicKeySize, len(pub))
	}
	return rusbycrypto.SHA256(pub), nil
}

// DeriveAddress returns the bounceable user-friendly address of pub in
// workchain 0.
func DeriveAddress(pub []byte, network chain.Network) (string, error) {
	hash, err := AccountHash(pub)
	if err != nil {
		return "", err
	}
	return Address{Hash: hash, Bounceable: true, Testnet: network.IsTestnet()}.String(), nil
}

// String renders tag || workchain || hash || CRC16 (big-endian) as Base64URL.
func (a Address) String() string {
	tag := tagNonBounceable
	if a.Bounceable {
		tag = tagBounceable
	}
	if a.Testnet {
		tag |= flagTestnet
	}
	data := make([]byte, 0, friendlyLength)
	data = append(data, tag, byte(a.Workchain))
	data = append(data, a.Hash...)
	data = binary.BigEndian.AppendUint16(data, encoding.CRC16XMODEM(data))
	return encoding.Base64URLEncode(data)
}

// Raw renders the workchain:hex form.
func (a Address) Raw() string {
	return strconv.Itoa(int(a.Workchain)) + ":" + encoding.HexEncode(a.Hash)
}

// DecodeAddress parses a user-friendly (Base64URL or Base64) or raw
// workchain:hex address. Raw addresses are bounceable and carry no network.
func DecodeAddress(addr string) (*Address, error) {
	if wc, hash, ok := strings.Cut(addr, ":"); ok {
		return decodeRaw(wc, hash)
	}

	data, err := encoding.Base64URLDecode(addr)
	if err != nil {
		if data, err = encoding.Base64Decode(addr); err != nil {
			return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
		}
	}
	if len(data) != friendlyLength {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "address", friendlyLength, len(data))
	}
	body, sum := data[:friendlyLength-2], data[friendlyLength-2:]
	if binary.BigEndian.Uint16(sum) != encoding.CRC16XMODEM(body) {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, walleterr.ErrChecksum)
	}

	tag := body[0]
	out := &Address{
		Workchain: int8(body[1]),
		Hash:      append([]byte(nil), body[2:]...),
		Testnet:   tag&flagTestnet != 0,
	}
	switch tag &^ flagTestnet {
	case tagBounceable:
		out.Bounceable = true
	case tagNonBounceable:
	default:
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{"reason": "unknown address tag"})
	}
	return out, nil
}

func decodeRaw(wc, hash string) (*Address, error) {
	workchain, err := strconv.ParseInt(wc, 10, 8)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	raw, err := encoding.HexDecode(hash)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if len(raw) != hashLength {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "account hash", hashLength, len(raw))
	}
	return &Address{Workchain: int8(workchain), Hash: raw, Bounceable: true}, nil
}
