package utxo

import (
	"math/bits"
	"strconv"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Virtual sizes in vbytes used for fee estimation.
const (
	segwitOverhead = 11 // version, marker, flag, counts, locktime (10.5 rounded up)
	p2wpkhInput    = 68
	legacyOverhead = 10
	p2pkhInput     = 148
)

func outputSize(k Kind) uint64 {
	switch k {
	case P2WPKH:
		return 31
	case P2WSH:
		return 43
	case P2SH:
		return 32
	default:
		return 34
	}
}

// EstimateVSize estimates the virtual size of a transaction spending
// numInputs of the chain's own outputs into outputs of the given kinds.
func (p *Params) EstimateVSize(numInputs int, outputs ...Kind) uint64 {
	var size uint64
	if p.SegWit {
		size = segwitOverhead + p2wpkhInput*uint64(numInputs) //nolint:gosec // input count is never negative
	} else {
		size = legacyOverhead + p2pkhInput*uint64(numInputs) //nolint:gosec // input count is never negative
	}
	for _, k := range outputs {
		size += outputSize(k)
	}
	return size
}

// EstimateFee is EstimateVSize times a fee rate in base units per vbyte.
// A product that does not fit in 64 bits is an invalid transaction.
func (p *Params) EstimateFee(feeRate uint64, numInputs int, outputs ...Kind) (uint64, error) {
	vsize := p.EstimateVSize(numInputs, outputs...)
	hi, fee := bits.Mul64(vsize, feeRate)
	if hi != 0 {
		return 0, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
			"reason":   "fee overflows",
			"fee_rate": strconv.FormatUint(feeRate, 10),
			"vsize":    strconv.FormatUint(vsize, 10),
		})
	}
	return fee, nil
}
