// Package shamir splits a secret into threshold shares over GF(2^8) and
// joins them back.
//
// A share renders as rusby-share-1-<threshold>-<x>-<hex>. Each byte of
// the secret gets its own random polynomial of degree threshold-1.
package shamir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	sharePrefix  = "rusby-share"
	shareVersion = 1

	// MaxShares is the number of distinct non-zero x coordinates.
	MaxShares = 255
	// MinThreshold is the smallest useful threshold.
	MinThreshold = 2
)

// Share is one point on every byte polynomial.
type Share struct {
	Threshold int
	X         byte
	Y         []byte
}

func (s Share) String() string {
	return fmt.Sprintf("%s-%d-%d-%d-%s", sharePrefix, shareVersion, s.Threshold, s.X, encoding.HexEncode(s.Y))
}

func invalid(reason string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": reason})
}

// Split divides secret into n shares of which any threshold recover it.
func Split(secret []byte, n, threshold int) ([]Share, error) {
	switch {
	case len(secret) == 0:
		return nil, invalid("secret is empty")
	case threshold < MinThreshold:
		return nil, invalid("threshold must be at least 2")
	case n < threshold:
		return nil, invalid("share count is below the threshold")
	case n > MaxShares:
		return nil, invalid("share count exceeds 255")
	}

	random, err := rusbycrypto.RandomBytes(len(secret) * (threshold - 1))
	if err != nil {
		return nil, err
	}
	defer rusbycrypto.Zero(random)

	shares := make([]Share, n)
	for i := range shares {
		shares[i] = Share{Threshold: threshold, X: byte(i + 1), Y: make([]byte, len(secret))}
	}

	coeffs := make([]byte, threshold)
	defer rusbycrypto.Zero(coeffs)
	for b, v := range secret {
		coeffs[0] = v
		copy(coeffs[1:], random[b*(threshold-1):])
		for i := range shares {
			shares[i].Y[b] = eval(coeffs, shares[i].X)
		}
	}
	return shares, nil
}

// Combine recovers the secret from at least Threshold distinct shares.
// Repeated x coordinates are ignored; extra shares beyond the threshold
// are not used.
func Combine(shares []Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, invalid("no shares")
	}

	threshold, size := shares[0].Threshold, len(shares[0].Y)
	seen := make(map[byte]bool, len(shares))
	points := make([]Share, 0, threshold)
	for _, s := range shares {
		if s.Threshold != threshold {
			return nil, invalid("shares disagree on threshold")
		}
		if len(s.Y) != size || size == 0 {
			return nil, invalid("shares disagree on length")
		}
		if s.X == 0 || seen[s.X] {
			continue
		}
		seen[s.X] = true
		points = append(points, s)
		if len(points) == threshold {
			break
		}
	}
	if threshold < MinThreshold || len(points) < threshold {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"reason":    "not enough distinct shares",
			"have":      strconv.Itoa(len(points)),
			"threshold": strconv.Itoa(threshold),
		})
	}

	// Lagrange basis at x=0 depends only on the x coordinates.
	basis := make([]byte, len(points))
	for i, p := range points {
		w := byte(1)
		for j, q := range points {
			if i != j {
				w = mul(w, div(q.X, q.X^p.X))
			}
		}
		basis[i] = w
	}

	secret := make([]byte, size)
	for b := range secret {
		var v byte
		for i, p := range points {
			v ^= mul(p.Y[b], basis[i])
		}
		secret[b] = v
	}
	return secret, nil
}

// Parse reads a share from its string form.
func Parse(s string) (Share, error) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, sharePrefix+"-")
	if !ok {
		return Share{}, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "not a rusby share"})
	}
	parts := strings.Split(rest, "-")
	if len(parts) != 4 {
		return Share{}, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "malformed share"})
	}
	if parts[0] != strconv.Itoa(shareVersion) {
		return Share{}, walleterr.WithDetails(walleterr.ErrUnsupportedVersion, map[string]string{"version": parts[0]})
	}

	threshold, err := strconv.Atoi(parts[1])
	if err != nil || threshold < MinThreshold || threshold > MaxShares {
		return Share{}, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "bad threshold"})
	}
	x, err := strconv.Atoi(parts[2])
	if err != nil || x < 1 || x > MaxShares {
		return Share{}, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "bad share index"})
	}
	y, err := encoding.HexDecode(parts[3])
	if err != nil {
		return Share{}, err
	}
	if len(y) == 0 {
		return Share{}, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "empty share"})
	}
	return Share{Threshold: threshold, X: byte(x), Y: y}, nil
}

// ParseAll parses each non-blank line of shares.
func ParseAll(shares []string) ([]Share, error) {
	out := make([]Share, 0, len(shares))
	for _, s := range shares {
		if strings.TrimSpace(s) == "" {
			continue
		}
		p, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
