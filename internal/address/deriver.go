package address

import (
	"github.com/rusbywallet/rusby/internal/chain"
)

// Deriver is the per-chain capability exposed to embedders.
type Deriver interface {
	DeriveAddress(seed []byte, opts Options) (string, error)
	Name() string
	Ticker() string
	ChainID() chain.ID
}

type profileDeriver struct {
	profile chain.Profile
}

// For returns the Deriver of chain id.
func For(id chain.ID) (Deriver, error) {
	profile, err := id.Profile()
	if err != nil {
		return nil, err
	}
	return profileDeriver{profile: profile}, nil
}

func (d profileDeriver) DeriveAddress(seed []byte, opts Options) (string, error) {
	addr, err := Derive(seed, d.profile.ID, opts)
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

func (d profileDeriver) Name() string      { return d.profile.Name }
func (d profileDeriver) Ticker() string    { return d.profile.Ticker }
func (d profileDeriver) ChainID() chain.ID { return d.profile.ID }
