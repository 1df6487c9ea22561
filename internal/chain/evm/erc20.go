package evm

import (
	"math/big"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// erc20TransferSelector is keccak256("transfer(address,uint256)")[:4].
//
//nolint:gochecknoglobals // ABI constant
var erc20TransferSelector = []byte{0xa9, 0x05, 0x9c, 0xbb}

// ERC20TransferData builds call data for transfer(to, amount). The resulting
// transaction is sent to the token contract with zero value.
func ERC20TransferData(to string, amount *big.Int) ([]byte, error) {
	recipient, err := ParseAddress(to)
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() < 0 || amount.BitLen() > 256 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "invalid token amount"})
	}

	data := make([]byte, 4+32+32)
	copy(data, erc20TransferSelector)
	copy(data[4+12:36], recipient)
	amount.FillBytes(data[36:])
	return data, nil
}
