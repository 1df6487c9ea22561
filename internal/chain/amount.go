package chain

import (
	"math/big"
	"strings"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// ParseAmount parses a decimal string such as "1.5" into base units with the
// given number of decimals. Precision beyond decimals is rejected rather
// than truncated.
func ParseAmount(amount string, decimals int) (*big.Int, error) {
	invalid := walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"amount": amount})

	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return nil, invalid
	}

	intPart, decPart, _ := strings.Cut(amount, ".")
	if strings.Contains(decPart, ".") || (intPart == "" && decPart == "") {
		return nil, invalid
	}
	if len(decPart) > decimals {
		return nil, invalid
	}
	if intPart == "" {
		intPart = "0"
	}
	decPart += strings.Repeat("0", decimals-len(decPart))

	for _, c := range intPart + decPart {
		if c < '0' || c > '9' {
			return nil, invalid
		}
	}

	v, ok := new(big.Int).SetString(intPart+decPart, 10)
	if !ok {
		return nil, invalid
	}
	return v, nil
}

// FormatAmount renders base units as a decimal string without trailing zeros.
// For example, 1500000000000000000 with 18 decimals returns "1.5".
func FormatAmount(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if amount.Sign() < 0 {
		return "-" + FormatAmount(new(big.Int).Abs(amount), decimals)
	}

	str := amount.String()
	if decimals == 0 {
		return str
	}
	if len(str) <= decimals {
		str = strings.Repeat("0", decimals-len(str)+1) + str
	}

	point := len(str) - decimals
	whole, frac := str[:point], strings.TrimRight(str[point:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// FormatUnits is FormatAmount for uint64 base units.
func FormatUnits(amount uint64, decimals int) string {
	return FormatAmount(new(big.Int).SetUint64(amount), decimals)
}
