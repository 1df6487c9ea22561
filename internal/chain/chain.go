// Package chain holds the closed registry of supported networks: their
// identifiers, derivation templates, curves, CAIP-2 names and the
// SignedTransaction every signer returns.
package chain

import (
	"strings"

	"github.com/rusbywallet/rusby/internal/hdkey"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// ID identifies a supported chain. The set is closed.
type ID string

// Supported chains.
const (
	Ethereum  ID = "ethereum"
	Polygon   ID = "polygon"
	BSC       ID = "bsc"
	Optimism  ID = "optimism"
	Base      ID = "base"
	Arbitrum  ID = "arbitrum"
	Bitcoin   ID = "bitcoin"
	Litecoin  ID = "litecoin"
	Dogecoin  ID = "dogecoin"
	Tron      ID = "tron"
	CosmosHub ID = "cosmos"
	Osmosis   ID = "osmosis"
	Ripple    ID = "ripple"
	Solana    ID = "solana"
	Stellar   ID = "stellar"
	TON       ID = "ton"
)

// BIP44 coin types.
const (
	CoinTypeBTC    uint32 = 0
	CoinTypeLTC    uint32 = 2
	CoinTypeDOGE   uint32 = 3
	CoinTypeETH    uint32 = 60
	CoinTypeCosmos uint32 = 118
	CoinTypeXRP    uint32 = 144
	CoinTypeXLM    uint32 = 148
	CoinTypeTRX    uint32 = 195
	CoinTypeSOL    uint32 = 501
	CoinTypeTON    uint32 = 607
)

// Family groups chains that share one address encoder and one signer.
type Family string

// Chain families.
const (
	FamilyEVM     Family = "evm"
	FamilyUTXO    Family = "utxo"
	FamilyTron    Family = "tron"
	FamilyCosmos  Family = "cosmos"
	FamilyRipple  Family = "ripple"
	FamilySolana  Family = "solana"
	FamilyStellar Family = "stellar"
	FamilyTON     Family = "ton"
)

// HashFormat is the text form of a chain's transaction hash.
type HashFormat string

// Transaction hash formats.
const (
	HashHex0x  HashFormat = "0x-hex"
	HashHex    HashFormat = "hex"
	HashBase58 HashFormat = "base58"
)

// Profile is the static configuration of one chain.
type Profile struct {
	ID         ID
	Name       string
	Ticker     string
	Family     Family
	Curve      hdkey.Curve
	CoinType   uint32
	Template   hdkey.Template
	Decimals   int
	CAIP2      string
	EVMChainID uint64     // EVM only
	DustLimit  uint64     // UTXO only, in base units
	HashFormat HashFormat // tx_hash text form
	Pipeline   string     // human description of the address pipeline
}

// bip44 is m/{purpose}'/{coin}'/{account}'/0/{index}.
func bip44(purpose, coin uint32) hdkey.Template {
	return hdkey.Template{hdkey.H(purpose), hdkey.H(coin), hdkey.AccountLevel(), hdkey.N(0), hdkey.IndexLevel(false)}
}

func evmProfile(id ID, name, ticker string, chainID uint64, caip2 string) Profile {
	return Profile{
		ID: id, Name: name, Ticker: ticker, Family: FamilyEVM,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeETH, Template: bip44(44, CoinTypeETH),
		Decimals: 18, CAIP2: caip2, EVMChainID: chainID, HashFormat: HashHex0x,
		Pipeline: "uncompressed pubkey -> keccak256 -> last 20 bytes -> EIP-55 hex",
	}
}

//nolint:gochecknoglobals // closed registry
var profiles = []Profile{
	evmProfile(Ethereum, "Ethereum", "ETH", 1, "eip155:1"),
	evmProfile(Polygon, "Polygon", "POL", 137, "eip155:137"),
	evmProfile(BSC, "BNB Smart Chain", "BNB", 56, "eip155:56"),
	evmProfile(Optimism, "Optimism", "ETH", 10, "eip155:10"),
	evmProfile(Base, "Base", "ETH", 8453, "eip155:8453"),
	evmProfile(Arbitrum, "Arbitrum One", "ETH", 42161, "eip155:42161"),
	{
		ID: Bitcoin, Name: "Bitcoin", Ticker: "BTC", Family: FamilyUTXO,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeBTC, Template: bip44(84, CoinTypeBTC),
		Decimals: 8, CAIP2: "bip122:000000000019d6689c085ae165831e93", DustLimit: 546, HashFormat: HashHex,
		Pipeline: "compressed pubkey -> hash160 -> bech32 segwit v0",
	},
	{
		ID: Litecoin, Name: "Litecoin", Ticker: "LTC", Family: FamilyUTXO,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeLTC, Template: bip44(84, CoinTypeLTC),
		Decimals: 8, CAIP2: "bip122:12a765e31ffd4059bada1e25190f6e98", DustLimit: 546, HashFormat: HashHex,
		Pipeline: "compressed pubkey -> hash160 -> bech32 segwit v0",
	},
	{
		ID: Dogecoin, Name: "Dogecoin", Ticker: "DOGE", Family: FamilyUTXO,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeDOGE, Template: bip44(44, CoinTypeDOGE),
		Decimals: 8, CAIP2: "bip122:1a91e3dace36e2be3bf030a65679fe82", DustLimit: 1_000_000, HashFormat: HashHex,
		Pipeline: "compressed pubkey -> hash160 -> base58check",
	},
	{
		ID: Tron, Name: "Tron", Ticker: "TRX", Family: FamilyTron,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeTRX, Template: bip44(44, CoinTypeTRX),
		Decimals: 6, CAIP2: "tron:0x2b6653dc", HashFormat: HashHex,
		Pipeline: "uncompressed pubkey -> keccak256 -> last 20 bytes -> 0x41 prefix -> base58check",
	},
	{
		ID: CosmosHub, Name: "Cosmos Hub", Ticker: "ATOM", Family: FamilyCosmos,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeCosmos, Template: bip44(44, CoinTypeCosmos),
		Decimals: 6, CAIP2: "cosmos:cosmoshub-4", HashFormat: HashHex0x,
		Pipeline: "compressed pubkey -> sha256 first 20 bytes -> bech32",
	},
	{
		ID: Osmosis, Name: "Osmosis", Ticker: "OSMO", Family: FamilyCosmos,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeCosmos, Template: bip44(44, CoinTypeCosmos),
		Decimals: 6, CAIP2: "cosmos:osmosis-1", HashFormat: HashHex0x,
		Pipeline: "compressed pubkey -> sha256 first 20 bytes -> bech32",
	},
	{
		ID: Ripple, Name: "XRP Ledger", Ticker: "XRP", Family: FamilyRipple,
		Curve: hdkey.Secp256k1, CoinType: CoinTypeXRP, Template: bip44(44, CoinTypeXRP),
		Decimals: 6, CAIP2: "xrpl:0", HashFormat: HashHex,
		Pipeline: "compressed pubkey -> hash160 -> base58check (ripple alphabet)",
	},
	{
		ID: Solana, Name: "Solana", Ticker: "SOL", Family: FamilySolana,
		Curve: hdkey.Ed25519, CoinType: CoinTypeSOL,
		Template: hdkey.Template{hdkey.H(44), hdkey.H(CoinTypeSOL), hdkey.AccountLevel(), hdkey.IndexLevel(true)},
		Decimals: 9, CAIP2: "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp", HashFormat: HashBase58,
		Pipeline: "ed25519 pubkey -> base58",
	},
	{
		ID: Stellar, Name: "Stellar", Ticker: "XLM", Family: FamilyStellar,
		Curve: hdkey.Ed25519, CoinType: CoinTypeXLM,
		Template: hdkey.Template{hdkey.H(44), hdkey.H(CoinTypeXLM), hdkey.IndexLevel(true)},
		Decimals: 7, CAIP2: "stellar:pubnet", HashFormat: HashHex,
		Pipeline: "ed25519 pubkey -> strkey (G...)",
	},
	{
		ID: TON, Name: "TON", Ticker: "TON", Family: FamilyTON,
		Curve: hdkey.Ed25519, CoinType: CoinTypeTON,
		Template: hdkey.Template{hdkey.H(44), hdkey.H(CoinTypeTON), hdkey.AccountLevel(), hdkey.IndexLevel(true)},
		Decimals: 9, CAIP2: "ton:-239", HashFormat: HashHex0x,
		Pipeline: "sha256(ed25519 pubkey) -> tag|workchain|hash|crc16 -> base64url",
	},
}

//nolint:gochecknoglobals // closed registry indexes
var (
	byID    = make(map[ID]*Profile, len(profiles))
	byCAIP2 = make(map[string]ID, len(profiles))
)

// aliases accepted by Parse in addition to the canonical IDs.
//
//nolint:gochecknoglobals // closed registry
var aliases = map[string]ID{
	"eth":          Ethereum,
	"matic":        Polygon,
	"pol":          Polygon,
	"bnb":          BSC,
	"binance":      BSC,
	"op":           Optimism,
	"arb":          Arbitrum,
	"arbitrum-one": Arbitrum,
	"btc":          Bitcoin,
	"ltc":          Litecoin,
	"doge":         Dogecoin,
	"trx":          Tron,
	"atom":         CosmosHub,
	"cosmoshub":    CosmosHub,
	"osmo":         Osmosis,
	"xrp":          Ripple,
	"xrpl":         Ripple,
	"sol":          Solana,
	"xlm":          Stellar,
	"toncoin":      TON,
}

//nolint:gochecknoinits // builds the registry indexes
func init() {
	for i := range profiles {
		p := &profiles[i]
		byID[p.ID] = p
		byCAIP2[p.CAIP2] = p.ID
	}
}

// All returns every chain in registry order.
func All() []ID {
	ids := make([]ID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}

// String returns the canonical identifier.
func (id ID) String() string {
	return string(id)
}

// IsValid reports whether id is a known chain.
func (id ID) IsValid() bool {
	_, ok := byID[id]
	return ok
}

// Profile returns the chain's static configuration.
func (id ID) Profile() (Profile, error) {
	p, ok := byID[id]
	if !ok {
		return Profile{}, unsupported(string(id))
	}
	return *p, nil
}

// MustProfile returns the profile of a known chain constant.
// It panics on an unknown ID and must only be used with the constants above.
func (id ID) MustProfile() Profile {
	p, ok := byID[id]
	if !ok {
		panic("chain: unknown id " + string(id))
	}
	return *p
}

// Family returns the chain family, or "" for an unknown chain.
func (id ID) Family() Family {
	if p, ok := byID[id]; ok {
		return p.Family
	}
	return ""
}

// CAIP2 returns the "namespace:reference" identifier, or "" for an unknown chain.
func (id ID) CAIP2() string {
	if p, ok := byID[id]; ok {
		return p.CAIP2
	}
	return ""
}

// Parse maps an external chain name to an ID. It accepts canonical IDs,
// common tickers and CAIP-2 identifiers, case-insensitively.
func Parse(name string) (ID, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if id := ID(s); id.IsValid() {
		return id, nil
	}
	if id, ok := aliases[s]; ok {
		return id, nil
	}
	if id, err := FromCAIP2(strings.TrimSpace(name)); err == nil {
		return id, nil
	}
	return "", unsupported(name)
}

// ParseList parses a comma-separated chain list, skipping blanks and duplicates.
func ParseList(list string) ([]ID, error) {
	var ids []ID
	seen := make(map[ID]bool)
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := Parse(part)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FromCAIP2 maps a CAIP-2 identifier to an ID.
func FromCAIP2(caip2 string) (ID, error) {
	if id, ok := byCAIP2[caip2]; ok {
		return id, nil
	}
	return "", unsupported(caip2)
}

func unsupported(name string) error {
	return walleterr.WithSuggestion(
		walleterr.WithDetails(walleterr.ErrUnsupportedChain, map[string]string{"chain": name}),
		"Run 'rusby chains' to list supported chains",
	)
}

// Network selects mainnet or testnet encodings.
type Network string

// Networks.
const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// ParseNetwork parses a network name. The empty string means mainnet.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test":
		return Testnet, nil
	default:
		return "", walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"network": s})
	}
}

// IsTestnet reports whether n is the test network.
func (n Network) IsTestnet() bool {
	return n == Testnet
}
