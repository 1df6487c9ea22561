// Package tron derives Tron addresses and signs transactions built by a
// remote node after verifying them against the caller's request.
package tron

import (
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/encoding"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// AddressLength is the length of a prefixed address.
const AddressLength = 21

// Address prefixes.
const (
	PrefixMainnet byte = 0x41
	PrefixTestnet byte = 0xa0
)

// Prefix returns the address prefix of network.
func Prefix(network chain.Network) byte {
	if network.IsTestnet() {
		return PrefixTestnet
	}
	return PrefixMainnet
}

// AddressBytes returns prefix || last 20 bytes of Keccak256(pubkey).
func AddressBytes(uncompressedPub []byte, network chain.Network) ([]byte, error) {
	hash, err := evm.AddressFromPublicKey(uncompressedPub)
	if err != nil {
		return nil, err
	}
	return append([]byte{Prefix(network)}, hash...), nil
}

// DeriveAddress returns the Base58Check address of an uncompressed public key.
func DeriveAddress(uncompressedPub []byte, network chain.Network) (string, error) {
	addr, err := AddressBytes(uncompressedPub, network)
	if err != nil {
		return "", err
	}
	return EncodeAddress(addr)
}

// EncodeAddress renders 21 prefixed address bytes as Base58Check.
func EncodeAddress(addr []byte) (string, error) {
	if len(addr) != AddressLength {
		return "", walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "address", AddressLength, len(addr))
	}
	return encoding.Base58CheckEncode(addr[:1], addr[1:], encoding.BitcoinAlphabet), nil
}

// DecodeAddress returns the 21 prefixed address bytes, checking the prefix
// against network.
func DecodeAddress(addr string, network chain.Network) ([]byte, error) {
	version, payload, err := encoding.Base58CheckDecode(addr, 1, encoding.BitcoinAlphabet)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if version[0] != Prefix(network) {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
			"reason":  "address prefix does not match network",
			"network": string(network),
		})
	}
	if len(payload) != AddressLength-1 {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "address", AddressLength, len(payload)+1)
	}
	return append(version, payload...), nil
}
