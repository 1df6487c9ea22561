package backup

import (
	"github.com/rusbywallet/rusby/internal/shamir"
)

// SplitShares splits a backup file into n shares of which threshold
// rebuild it. The backup is checked first so that shares of a broken
// file are never handed out. Shares hold only the encrypted seed; the
// password is still needed after joining.
func SplitShares(data []byte, n, threshold int) ([]string, error) {
	if _, _, err := Import(data); err != nil {
		return nil, err
	}

	shares, err := shamir.Split(data, n, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(shares))
	for i, s := range shares {
		out[i] = s.String()
	}
	return out, nil
}

// JoinShares rebuilds a backup file from its shares and checks that the
// result parses.
func JoinShares(shares []string) ([]byte, error) {
	parsed, err := shamir.ParseAll(shares)
	if err != nil {
		return nil, err
	}
	data, err := shamir.Combine(parsed)
	if err != nil {
		return nil, err
	}
	if _, _, err := Import(data); err != nil {
		return nil, err
	}
	return data, nil
}
