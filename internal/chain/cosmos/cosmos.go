// Package cosmos derives Cosmos SDK addresses and signs bank sends using
// the legacy Amino JSON sign mode.
package cosmos

import (
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// AddressLength is the length of an account address payload.
const AddressLength = 20

// Params are the per-chain constants of a Cosmos SDK zone.
type Params struct {
	Chain      chain.ID
	Prefix     string
	Denom      string
	ChainID    string
	DefaultGas uint64
	DefaultFee uint64
}

// ParamsFor returns the constants for id on network.
func ParamsFor(id chain.ID, network chain.Network) (*Params, error) {
	switch id {
	case chain.CosmosHub:
		p := &Params{Chain: id, Prefix: "cosmos", Denom: "uatom", ChainID: "cosmoshub-4", DefaultGas: 200_000, DefaultFee: 5_000}
		if network.IsTestnet() {
			p.ChainID = "theta-testnet-001"
		}
		return p, nil
	case chain.Osmosis:
		p := &Params{Chain: id, Prefix: "osmo", Denom: "uosmo", ChainID: "osmosis-1", DefaultGas: 250_000, DefaultFee: 6_250}
		if network.IsTestnet() {
			p.ChainID = "osmo-test-5"
		}
		return p, nil
	default:
		return nil, walleterr.WithDetails(walleterr.ErrUnsupportedChain, map[string]string{
			"chain":  id.String(),
			"reason": "not a Cosmos SDK chain",
		})
	}
}

// AddressPayload is SHA256(compressed pubkey) truncated to 20 bytes, not
// the SDK's RIPEMD160(SHA256(pubkey)).
func AddressPayload(compressedPub []byte) ([]byte, error) {
	if len(compressedPub) != 33 {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 33, len(compressedPub))
	}
	return rusbycrypto.SHA256(compressedPub)[:AddressLength], nil
}

// DeriveAddress encodes the address payload under the chain's prefix.
func (p *Params) DeriveAddress(compressedPub []byte) (string, error) {
	payload, err := AddressPayload(compressedPub)
	if err != nil {
		return "", err
	}
	return encoding.Bech32Encode(p.Prefix, payload)
}

// DecodeAddress checks the prefix and returns the 20-byte payload.
func (p *Params) DecodeAddress(addr string) ([]byte, error) {
	hrp, payload, err := encoding.Bech32Decode(addr)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if hrp != p.Prefix {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{
			"expected_prefix": p.Prefix,
			"actual_prefix":   hrp,
		})
	}
	if len(payload) != AddressLength {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "address payload", AddressLength, len(payload))
	}
	return payload, nil
}
