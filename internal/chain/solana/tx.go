package solana

import (
	"crypto/ed25519"

	sol "github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// LamportsPerSignature is the base fee of a single-signature transaction.
	LamportsPerSignature uint64 = 5000

	// DefaultComputeUnitLimit applies when a unit price is set without a limit.
	DefaultComputeUnitLimit uint32 = 200_000
)

// TokenTransfer turns a transfer into an SPL TransferChecked between the
// associated token accounts of sender and recipient.
type TokenTransfer struct {
	Mint     string
	Decimals uint8

	// CreateDestination prepends creation of the recipient's associated
	// token account, paid by the sender.
	CreateDestination bool
}

// TxParams describe a transfer. RecentBlockhash comes from an RPC
// collaborator.
type TxParams struct {
	To              string
	Amount          uint64 // lamports, or token base units with Token
	RecentBlockhash string
	Token           *TokenTransfer

	// ComputeUnitPrice in micro-lamports adds a priority fee.
	ComputeUnitPrice uint64
	ComputeUnitLimit uint32

	// Balance, when set, must cover the amount; for SOL transfers it must
	// also cover the fee.
	Balance *uint64
}

// Fee is the base fee plus the priority fee.
func (p TxParams) Fee() uint64 {
	fee := LamportsPerSignature
	if p.ComputeUnitPrice > 0 {
		limit := p.ComputeUnitLimit
		if limit == 0 {
			limit = DefaultComputeUnitLimit
		}
		fee += (p.ComputeUnitPrice*uint64(limit) + 999_999) / 1_000_000
	}
	return fee
}

func invalidTx(reason string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": reason})
}

// BuildTransaction validates params and compiles an unsigned transaction
// paid by from.
func BuildTransaction(from []byte, p TxParams) (*sol.Transaction, error) {
	if len(from) != ed25519.PublicKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", ed25519.PublicKeySize, len(from))
	}
	payer := sol.PublicKeyFromBytes(from)

	to, err := parsePublicKey(p.To)
	if err != nil {
		return nil, err
	}
	if p.Amount == 0 {
		return nil, invalidTx("amount is zero")
	}
	blockhash, err := sol.HashFromBase58(p.RecentBlockhash)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	if p.Balance != nil {
		required := p.Amount
		if p.Token == nil {
			required += p.Fee()
		}
		if required < p.Amount {
			return nil, invalidTx("amount plus fee overflows")
		}
		if required > *p.Balance {
			return nil, walleterr.InsufficientFunds(required, *p.Balance)
		}
	}

	var instructions []sol.Instruction
	if p.ComputeUnitLimit > 0 {
		instructions = append(instructions, computebudget.NewSetComputeUnitLimitInstruction(p.ComputeUnitLimit).Build())
	}
	if p.ComputeUnitPrice > 0 {
		instructions = append(instructions, computebudget.NewSetComputeUnitPriceInstruction(p.ComputeUnitPrice).Build())
	}

	if p.Token == nil {
		instructions = append(instructions, system.NewTransferInstruction(p.Amount, payer, to).Build())
	} else {
		tokenInstructions, err := tokenTransfer(payer, to, p.Amount, p.Token)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, tokenInstructions...)
	}

	tx, err := sol.NewTransaction(instructions, blockhash, sol.TransactionPayer(payer))
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	return tx, nil
}

func tokenTransfer(owner, to sol.PublicKey, amount uint64, t *TokenTransfer) ([]sol.Instruction, error) {
	mint, err := parsePublicKey(t.Mint)
	if err != nil {
		return nil, err
	}
	source, _, err := sol.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	dest, _, err := sol.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}

	var out []sol.Instruction
	if t.CreateDestination {
		out = append(out, associatedtokenaccount.NewCreateInstruction(owner, to, mint).Build())
	}
	out = append(out, token.NewTransferCheckedInstruction(
		amount,
		t.Decimals,
		source,
		mint,
		dest,
		owner,
		[]sol.PublicKey{},
	).Build())
	return out, nil
}

// Sign builds and signs a transfer with a 32-byte Ed25519 seed. The message
// bytes are signed directly; tx_hash is the Base58 signature.
func Sign(priv []byte, p TxParams) (*chain.SignedTransaction, error) {
	pub, err := rusbycrypto.Ed25519PublicKey(priv)
	if err != nil {
		return nil, err
	}
	tx, err := BuildTransaction(pub, p)
	if err != nil {
		return nil, err
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	sig, err := rusbycrypto.SignEd25519(priv, msg)
	if err != nil {
		return nil, err
	}
	tx.Signatures = []sol.Signature{sol.SignatureFromBytes(sig)}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	return &chain.SignedTransaction{
		ChainID:  chain.Solana,
		RawBytes: raw,
		TxHash:   encoding.Base58Encode(sig),
	}, nil
}
