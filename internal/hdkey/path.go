// Package hdkey derives child keys from a 64-byte seed: BIP32 over
// secp256k1 and SLIP-10 over Ed25519.
package hdkey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/hdkeychain/v3"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// HardenedOffset is added to an index to mark a hardened derivation step.
const HardenedOffset uint32 = hdkeychain.HardenedKeyStart

// Path is a sequence of child indices below the master key.
type Path []uint32

// ParsePath parses "m/44'/60'/0'/0/0". Both ' and h mark hardened indices.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, invalidPath(s, "path must start with m")
	}

	path := make(Path, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H")
		if hardened {
			part = part[:len(part)-1]
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(n) >= HardenedOffset {
			return nil, invalidPath(s, fmt.Sprintf("invalid index %q", part))
		}
		idx := uint32(n)
		if hardened {
			idx += HardenedOffset
		}
		path = append(path, idx)
	}
	return path, nil
}

func invalidPath(path, reason string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
		"path":   path,
		"reason": reason,
	})
}

// String formats the path with ' marking hardened indices.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range p {
		b.WriteByte('/')
		if idx >= HardenedOffset {
			b.WriteString(strconv.FormatUint(uint64(idx-HardenedOffset), 10))
			b.WriteByte('\'')
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}

// Hardened returns a copy of p with every index hardened.
func (p Path) Hardened() Path {
	out := make(Path, len(p))
	for i, idx := range p {
		out[i] = idx | HardenedOffset
	}
	return out
}

// Segment is one level of a Template.
type Segment struct {
	Source   SegmentSource
	Value    uint32
	Hardened bool
}

// SegmentSource says where a template level takes its index from.
type SegmentSource uint8

const (
	// Fixed levels use Segment.Value.
	Fixed SegmentSource = iota
	// Account levels take the caller's account number.
	Account
	// Index levels take the caller's address index.
	Index
)

// Template is a chain's derivation path shape, for example
// m/44'/60'/{account}'/0/{index}.
type Template []Segment

// Path fills the template with account and index.
func (t Template) Path(account, index uint32) (Path, error) {
	if account >= HardenedOffset || index >= HardenedOffset {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"reason": "account and index must be below 2^31",
		})
	}

	path := make(Path, len(t))
	usesAccount := false
	for i, seg := range t {
		v := seg.Value
		switch seg.Source {
		case Account:
			v = account
			usesAccount = true
		case Index:
			v = index
		case Fixed:
		}
		if seg.Hardened {
			v += HardenedOffset
		}
		path[i] = v
	}

	if !usesAccount && account != 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"reason": "derivation path has no account level",
		})
	}
	return path, nil
}

// SplitAtAccount fills the template and splits it after the account
// level. Every level below the account must be normal so that it can be
// walked from an account public key.
func (t Template) SplitAtAccount(account, index uint32) (prefix, suffix Path, err error) {
	path, err := t.Path(account, index)
	if err != nil {
		return nil, nil, err
	}
	for i, seg := range t {
		if seg.Source != Account {
			continue
		}
		for _, below := range t[i+1:] {
			if below.Hardened {
				return nil, nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
					"reason": "hardened level below the account",
					"path":   t.String(),
				})
			}
		}
		return path[:i+1], path[i+1:], nil
	}
	return nil, nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
		"reason": "derivation path has no account level",
		"path":   t.String(),
	})
}

// String renders the template with placeholders.
func (t Template) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, seg := range t {
		b.WriteByte('/')
		switch seg.Source {
		case Account:
			b.WriteString("{account}")
		case Index:
			b.WriteString("{index}")
		case Fixed:
			b.WriteString(strconv.FormatUint(uint64(seg.Value), 10))
		}
		if seg.Hardened {
			b.WriteByte('\'')
		}
	}
	return b.String()
}

// H is a fixed hardened level.
func H(v uint32) Segment { return Segment{Source: Fixed, Value: v, Hardened: true} }

// N is a fixed normal level.
func N(v uint32) Segment { return Segment{Source: Fixed, Value: v} }

// AccountLevel is the caller's account, hardened.
func AccountLevel() Segment { return Segment{Source: Account, Hardened: true} }

// IndexLevel is the caller's address index.
func IndexLevel(hardened bool) Segment { return Segment{Source: Index, Hardened: hardened} }
