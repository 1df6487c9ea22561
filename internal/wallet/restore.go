package wallet

import (
	"strings"

	"github.com/mrz1836/go-sanitize"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// InputFormat is the detected format of restore input.
type InputFormat int

const (
	// FormatUnknown indicates the input format could not be determined.
	FormatUnknown InputFormat = iota
	// FormatMnemonic indicates a BIP39 mnemonic phrase.
	FormatMnemonic
	// FormatSeedHex indicates a hex-encoded 64-byte seed.
	FormatSeedHex
)

func (f InputFormat) String() string {
	switch f {
	case FormatMnemonic:
		return "mnemonic"
	case FormatSeedHex:
		return "seed-hex"
	default:
		return "unknown"
	}
}

// DetectInputFormat guesses whether input is a mnemonic or a raw seed.
func DetectInputFormat(input string) InputFormat {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return FormatUnknown
	case isMnemonicFormat(input):
		return FormatMnemonic
	case isSeedHex(input):
		return FormatSeedHex
	default:
		return FormatUnknown
	}
}

// isMnemonicFormat accepts 12 or 24 words of which most are BIP39 words,
// so typos still route to mnemonic validation.
func isMnemonicFormat(input string) bool {
	words := strings.Fields(NormalizeMnemonicInput(input))
	if len(words) != 12 && len(words) != 24 {
		return false
	}

	valid := 0
	for _, word := range words {
		if IsValidWord(word) {
			valid++
		}
	}
	return valid >= len(words)/2
}

func isSeedHex(input string) bool {
	raw, err := encoding.HexDecode(input)
	if err != nil {
		return false
	}
	defer clear(raw)
	return len(raw) == SeedSize
}

// ParseSeedInput turns restore input into a seed. Mnemonics go through
// BIP39 with passphrase; a hex seed is used as is and must not carry a
// passphrase. The caller must zero the result.
func ParseSeedInput(input, passphrase string) ([]byte, InputFormat, error) {
	format := DetectInputFormat(input)
	switch format {
	case FormatMnemonic:
		seed, err := MnemonicToSeed(input, passphrase)
		if err != nil {
			if typos := DetectTypos(input); len(typos) > 0 {
				err = walleterr.WithSuggestion(err, FormatTypoSuggestions(typos))
			}
			return nil, format, err
		}
		return seed, format, nil
	case FormatSeedHex:
		if passphrase != "" {
			return nil, format, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
				"reason": "a passphrase applies only to mnemonics",
			})
		}
		seed, err := encoding.HexDecode(strings.TrimSpace(input))
		return seed, format, err
	default:
		return nil, format, walleterr.WithSuggestion(walleterr.ErrInvalidInput,
			"enter a 12 or 24 word recovery phrase or a 128 character hex seed")
	}
}

// SanitizeAddressInput strips copy-paste artifacts from an address typed
// for chain id. Base58 addresses lose every non-alphabet character; other
// encodings are only trimmed.
func SanitizeAddressInput(id chain.ID, input string) string {
	input = strings.TrimSpace(input)
	switch id.Family() {
	case chain.FamilyTron, chain.FamilyRipple, chain.FamilySolana:
		return sanitize.BitcoinAddress(input)
	case chain.FamilyUTXO:
		if id == chain.Dogecoin {
			return sanitize.BitcoinAddress(input)
		}
	}
	return input
}
