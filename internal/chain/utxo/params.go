// Package utxo builds and signs transactions for the Bitcoin-family chains:
// native SegWit v0 (P2WPKH) on Bitcoin and Litecoin, legacy P2PKH on
// Dogecoin.
package utxo

import (
	"github.com/rusbywallet/rusby/internal/chain"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Params are the per-network encoding constants of one UTXO chain.
type Params struct {
	Chain         chain.ID
	SegWit        bool   // spend from P2WPKH, else P2PKH
	HRP           string // bech32 prefix, empty without SegWit
	PubKeyHashIDs []byte // accepted P2PKH versions; the first is used for encoding
	ScriptHashIDs []byte // accepted P2SH versions
	TxVersion     int32
	DustLimit     uint64
}

// ParamsFor returns the constants for id on network.
func ParamsFor(id chain.ID, network chain.Network) (*Params, error) {
	testnet := network.IsTestnet()
	switch id {
	case chain.Bitcoin:
		p := &Params{Chain: id, SegWit: true, HRP: "bc", PubKeyHashIDs: []byte{0x00}, ScriptHashIDs: []byte{0x05}, TxVersion: 2, DustLimit: 546}
		if testnet {
			p.HRP, p.PubKeyHashIDs, p.ScriptHashIDs = "tb", []byte{0x6f}, []byte{0xc4}
		}
		return p, nil
	case chain.Litecoin:
		p := &Params{Chain: id, SegWit: true, HRP: "ltc", PubKeyHashIDs: []byte{0x30}, ScriptHashIDs: []byte{0x32, 0x05}, TxVersion: 2, DustLimit: 546}
		if testnet {
			p.HRP, p.PubKeyHashIDs, p.ScriptHashIDs = "tltc", []byte{0x6f}, []byte{0x3a, 0xc4}
		}
		return p, nil
	case chain.Dogecoin:
		p := &Params{Chain: id, PubKeyHashIDs: []byte{0x1e}, ScriptHashIDs: []byte{0x16}, TxVersion: 1, DustLimit: 1_000_000}
		if testnet {
			p.PubKeyHashIDs, p.ScriptHashIDs = []byte{0x71}, []byte{0xc4}
		}
		return p, nil
	default:
		return nil, walleterr.WithDetails(walleterr.ErrUnsupportedChain, map[string]string{
			"chain":  id.String(),
			"reason": "not a UTXO chain",
		})
	}
}
