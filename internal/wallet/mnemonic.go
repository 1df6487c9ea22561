// Package wallet provides BIP39 mnemonic generation, validation and seed
// derivation, plus wallet name rules.
package wallet

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/cosmos/go-bip39"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// SeedSize is the length of a BIP39 seed.
const SeedSize = 64

var (
	// ErrInvalidWordCount indicates the mnemonic must be 12 or 24 words.
	ErrInvalidWordCount = walleterr.WithSuggestion(walleterr.ErrInvalidInput, "word count must be 12 or 24")

	// ErrInvalidMnemonic indicates a bad word, word count or checksum.
	ErrInvalidMnemonic = walleterr.WithSuggestion(walleterr.ErrInvalidInput, "check the spelling and order of the recovery phrase")

	whitespaceRegex = regexp.MustCompile(`\s+`)

	// numbered list prefixes like "1." "2)" "3:"
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)

	// bullet prefixes like "- " "* " "• "
	bulletListRegex = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// GenerateMnemonic creates a new BIP39 mnemonic phrase of 12 (128-bit) or
// 24 (256-bit) words.
func GenerateMnemonic(wordCount int) (string, error) {
	var bitSize int
	switch wordCount {
	case 12:
		bitSize = 128
	case 24:
		bitSize = 256
	default:
		return "", walleterr.WithDetails(ErrInvalidWordCount, map[string]string{"words": strconv.Itoa(wordCount)})
	}

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrCrypto, err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrCrypto, err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks word count, word validity and checksum.
func ValidateMnemonic(mnemonic string) error {
	normalized := NormalizeMnemonicInput(mnemonic)

	// BIP39 checksum validation is skipped for lengths this wallet never produces.
	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return ErrInvalidMnemonic
	}

	if _, err := bip39.MnemonicToByteArray(normalized); err != nil {
		return ErrInvalidMnemonic
	}
	return nil
}

// NormalizeMnemonicInput lowercases a pasted phrase and strips list
// numbering, bullets, commas and extra whitespace.
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// MnemonicToSeed converts a BIP39 mnemonic and optional passphrase to a
// 64-byte seed. The caller owns the seed and must zero it.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	return bip39.NewSeed(NormalizeMnemonicInput(mnemonic), passphrase), nil
}

// IsValidWord checks if a word is in the BIP39 English word list.
func IsValidWord(word string) bool {
	_, ok := bip39.ReverseWordMap[strings.ToLower(word)]
	return ok
}

// MaxTypoDistance is the largest Levenshtein distance that still yields
// a suggestion.
const MaxTypoDistance = 2

// TypoInfo describes a word that is not in the BIP39 list.
type TypoInfo struct {
	Index      int    // 0-based word position
	Word       string // as typed
	Suggestion string // closest BIP39 word, empty when none is close
	Distance   int
}

// SuggestWord returns the closest BIP39 word to input, or "" when nothing
// is within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string
	for _, word := range bip39.WordList {
		dist := levenshtein.ComputeDistance(input, word)
		if dist == 0 {
			return word
		}
		if dist < minDist {
			minDist, suggestion = dist, word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos reports every word of mnemonic missing from the BIP39 list.
func DetectTypos(mnemonic string) []TypoInfo {
	var typos []TypoInfo
	for i, word := range strings.Fields(NormalizeMnemonicInput(mnemonic)) {
		if IsValidWord(word) {
			continue
		}
		typo := TypoInfo{Index: i, Word: word, Suggestion: SuggestWord(word)}
		if typo.Suggestion != "" {
			typo.Distance = levenshtein.ComputeDistance(word, typo.Suggestion)
		}
		typos = append(typos, typo)
	}
	return typos
}

// FormatTypoSuggestions renders typos one per line with 1-based positions.
func FormatTypoSuggestions(typos []TypoInfo) string {
	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Word ")
		b.WriteString(strconv.Itoa(typo.Index + 1))
		b.WriteString(": '")
		b.WriteString(typo.Word)
		b.WriteByte('\'')
		if typo.Suggestion != "" {
			b.WriteString(" - did you mean '")
			b.WriteString(typo.Suggestion)
			b.WriteString("'?")
		} else {
			b.WriteString(" is not a valid BIP39 word")
		}
	}
	return b.String()
}
