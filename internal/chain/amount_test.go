package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

func TestParseAmount_Valid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
	}{
		{"1.5 with 18 decimals", "1.5", 18, "1500000000000000000"},
		{"0.1 with 8 decimals", "0.1", 8, "10000000"},
		{"100 no decimal", "100", 18, "100000000000000000000"},
		{".5 no integer", ".5", 18, "500000000000000000"},
		{"trailing point", "7.", 6, "7000000"},
		{"zero", "0", 18, "0"},
		{"full precision", "0.00000001", 8, "1"},
		{"no decimals chain", "42", 0, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAmount(tt.amount, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "-1", "+1", "1.2.3", ".", "abc", "1e5", "0.000000001", "1,5"} {
		_, err := ParseAmount(in, 8)
		require.ErrorIs(t, err, walleterr.ErrInvalidInput, in)
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		amount   *big.Int
		decimals int
		want     string
	}{
		{big.NewInt(1_500_000_000_000_000_000), 18, "1.5"},
		{big.NewInt(1), 8, "0.00000001"},
		{big.NewInt(100_000_000), 8, "1"},
		{big.NewInt(0), 6, "0"},
		{big.NewInt(-2_500_000), 6, "-2.5"},
		{big.NewInt(42), 0, "42"},
		{nil, 8, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.decimals))
	}
	assert.Equal(t, "0.000546", FormatUnits(546, 6))
}

func TestAmount_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"1.5", "0.00000001", "123456.789", "21000000"} {
		v, err := ParseAmount(s, 8)
		require.NoError(t, err)
		assert.Equal(t, s, FormatAmount(v, 8))
	}
}
