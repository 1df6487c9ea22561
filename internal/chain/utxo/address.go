package utxo

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"

	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Kind is the output script type of a destination.
type Kind uint8

// Destination kinds.
const (
	P2PKH Kind = iota + 1
	P2SH
	P2WPKH
	P2WSH
)

// Destination is a decoded address.
type Destination struct {
	Kind Kind
	Hash []byte // 20-byte hash, or 32-byte script hash for P2WSH
}

// DeriveAddress encodes a compressed public key as the chain's receive
// address: bech32 P2WPKH with SegWit, Base58Check P2PKH otherwise.
func (p *Params) DeriveAddress(compressedPub []byte) (string, error) {
	if len(compressedPub) != 33 {
		return "", walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 33, len(compressedPub))
	}
	h := rusbycrypto.Hash160(compressedPub)
	if p.SegWit {
		return encoding.SegWitEncode(p.HRP, h)
	}
	return encoding.Base58CheckEncode(p.PubKeyHashIDs[:1], h, encoding.BitcoinAlphabet), nil
}

// OwnDestination is the destination DeriveAddress encodes for compressedPub.
func (p *Params) OwnDestination(compressedPub []byte) Destination {
	kind := P2PKH
	if p.SegWit {
		kind = P2WPKH
	}
	return Destination{Kind: kind, Hash: rusbycrypto.Hash160(compressedPub)}
}

// DecodeAddress parses a destination address. Bech32 v0 is accepted only on
// SegWit chains; Base58Check must carry one of the chain's versions.
func (p *Params) DecodeAddress(addr string) (Destination, error) {
	if p.SegWit {
		if program, err := encoding.SegWitDecode(p.HRP, addr); err == nil {
			kind := P2WPKH
			if len(program) == 32 {
				kind = P2WSH
			}
			return Destination{Kind: kind, Hash: program}, nil
		}
	}

	version, payload, err := encoding.Base58CheckDecode(addr, 1, encoding.BitcoinAlphabet)
	if err != nil {
		return Destination{}, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if len(payload) != 20 {
		return Destination{}, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "address payload", 20, len(payload))
	}
	switch {
	case bytes.IndexByte(p.PubKeyHashIDs, version[0]) >= 0:
		return Destination{Kind: P2PKH, Hash: payload}, nil
	case bytes.IndexByte(p.ScriptHashIDs, version[0]) >= 0:
		return Destination{Kind: P2SH, Hash: payload}, nil
	default:
		return Destination{}, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
			"address": addr,
			"reason":  "wrong network version byte",
		})
	}
}

// PkScript returns the output script paying to d.
func (d Destination) PkScript() ([]byte, error) {
	b := txscript.NewScriptBuilder()
	switch d.Kind {
	case P2PKH:
		b.AddOp(txscript.OP_DUP).AddOp(txscript.OP_HASH160).AddData(d.Hash).
			AddOp(txscript.OP_EQUALVERIFY).AddOp(txscript.OP_CHECKSIG)
	case P2SH:
		b.AddOp(txscript.OP_HASH160).AddData(d.Hash).AddOp(txscript.OP_EQUAL)
	case P2WPKH, P2WSH:
		b.AddOp(txscript.OP_0).AddData(d.Hash)
	default:
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{"reason": "unknown destination kind"})
	}
	script, err := b.Script()
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	return script, nil
}
