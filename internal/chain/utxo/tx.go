package utxo

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// UTXO is an unspent output owned by the signing key, as reported by an
// indexer.
type UTXO struct {
	TxID         string // display (byte-reversed) hex
	Vout         uint32
	Amount       uint64
	ScriptPubKey string // optional hex; must match the key's own script when set
}

// TxParams describe a single-recipient payment.
type TxParams struct {
	UTXOs  []UTXO
	To     string
	Amount uint64

	// Fee is the absolute fee. When zero, FeeRate (base units per vbyte)
	// is used to estimate it.
	Fee     uint64
	FeeRate uint64

	// ChangeAddress receives change above the dust limit. Defaults to the
	// sender's own address.
	ChangeAddress string
}

// Plan is the funding decision made before any signing work.
type Plan struct {
	Total  uint64
	Amount uint64
	Fee    uint64
	Change uint64 // zero when change was folded into the fee
}

const sequenceFinal = 0xffffffff

// Build validates params and assembles the unsigned transaction spending
// the outputs of compressedPub. Funds are checked here, before signing.
func (p *Params) Build(compressedPub []byte, params TxParams) (*wire.MsgTx, []*wire.TxOut, *Plan, error) {
	if len(params.UTXOs) == 0 {
		return nil, nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "no inputs"})
	}

	dest, err := p.DecodeAddress(params.To)
	if err != nil {
		return nil, nil, nil, err
	}
	destScript, err := dest.PkScript()
	if err != nil {
		return nil, nil, nil, err
	}
	if params.Amount < p.DustLimit {
		return nil, nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
			"reason":     "amount below dust limit",
			"dust_limit": fmt.Sprint(p.DustLimit),
		})
	}

	own := p.OwnDestination(compressedPub)
	ownScript, err := own.PkScript()
	if err != nil {
		return nil, nil, nil, err
	}

	change := own
	if params.ChangeAddress != "" {
		if change, err = p.DecodeAddress(params.ChangeAddress); err != nil {
			return nil, nil, nil, err
		}
	}
	changeScript, err := change.PkScript()
	if err != nil {
		return nil, nil, nil, err
	}

	tx := wire.NewMsgTx(p.TxVersion)
	prevOuts := make([]*wire.TxOut, 0, len(params.UTXOs))
	seen := make(map[wire.OutPoint]struct{}, len(params.UTXOs))
	var total uint64
	for i, u := range params.UTXOs {
		in, prev, err := buildInput(u, ownScript)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("input %d: %w", i, err)
		}
		if _, dup := seen[in.PreviousOutPoint]; dup {
			return nil, nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
				"reason":   "duplicate input",
				"outpoint": in.PreviousOutPoint.String(),
			})
		}
		seen[in.PreviousOutPoint] = struct{}{}
		if total > math.MaxInt64-u.Amount {
			return nil, nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "input total overflows"})
		}
		total += u.Amount
		tx.AddTxIn(in)
		prevOuts = append(prevOuts, prev)
	}

	fee := params.Fee
	if fee == 0 {
		if params.FeeRate == 0 {
			return nil, nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "fee or fee rate required"})
		}
		if fee, err = p.EstimateFee(params.FeeRate, len(params.UTXOs), dest.Kind, change.Kind); err != nil {
			return nil, nil, nil, err
		}
	}

	required := params.Amount + fee
	if required < params.Amount || total < required {
		return nil, nil, nil, walleterr.InsufficientFunds(required, total)
	}

	plan := &Plan{Total: total, Amount: params.Amount, Fee: fee}
	tx.AddTxOut(wire.NewTxOut(int64(params.Amount), destScript)) //nolint:gosec // bounded by total <= MaxInt64

	if rest := total - required; rest >= p.DustLimit {
		plan.Change = rest
		tx.AddTxOut(wire.NewTxOut(int64(rest), changeScript)) //nolint:gosec // bounded by total <= MaxInt64
	} else {
		plan.Fee += rest
	}

	return tx, prevOuts, plan, nil
}

func buildInput(u UTXO, ownScript []byte) (*wire.TxIn, *wire.TxOut, error) {
	hash, err := chainhash.NewHashFromStr(u.TxID)
	if err != nil || len(u.TxID) != chainhash.MaxHashStringSize {
		return nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "invalid txid", "txid": u.TxID})
	}
	if u.Amount == 0 || u.Amount > math.MaxInt64 {
		return nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "invalid input amount"})
	}
	if u.ScriptPubKey != "" {
		script, err := hex.DecodeString(u.ScriptPubKey)
		if err != nil {
			return nil, nil, walleterr.WithCause(walleterr.ErrFormat, err)
		}
		if !bytes.Equal(script, ownScript) {
			return nil, nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
				"reason": "input script is not spendable by this key",
			})
		}
	}

	in := wire.NewTxIn(wire.NewOutPoint(hash, u.Vout), nil, nil)
	in.Sequence = sequenceFinal
	return in, wire.NewTxOut(int64(u.Amount), ownScript), nil
}

// Sign builds and signs the payment with a 32-byte secp256k1 key. On SegWit
// chains each input gets a BIP-143 signature and a [sig, pubkey] witness;
// otherwise a legacy SIGHASH_ALL signature in its scriptSig.
func (p *Params) Sign(priv []byte, params TxParams) (*chain.SignedTransaction, *Plan, error) {
	if len(priv) != rusbycrypto.PrivateKeySize {
		return nil, nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", rusbycrypto.PrivateKeySize, len(priv))
	}
	pub, err := compressedPublicKey(priv)
	if err != nil {
		return nil, nil, err
	}

	tx, prevOuts, plan, err := p.Build(pub, params)
	if err != nil {
		return nil, nil, err
	}

	if p.SegWit {
		err = signSegWit(tx, prevOuts, priv, pub)
	} else {
		err = signLegacy(tx, prevOuts, priv, pub)
	}
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return nil, nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}

	return &chain.SignedTransaction{
		ChainID:  p.Chain,
		RawBytes: buf.Bytes(),
		TxHash:   tx.TxHash().String(),
	}, plan, nil
}

func signSegWit(tx *wire.MsgTx, prevOuts []*wire.TxOut, priv, pub []byte) error {
	fetchMap := make(map[wire.OutPoint]*wire.TxOut, len(prevOuts))
	for i, in := range tx.TxIn {
		fetchMap[in.PreviousOutPoint] = prevOuts[i]
	}
	sigHashes := txscript.NewTxSigHashes(tx, txscript.NewMultiPrevOutFetcher(fetchMap))

	for i := range tx.TxIn {
		hash, err := txscript.CalcWitnessSigHash(prevOuts[i].PkScript, sigHashes, txscript.SigHashAll, tx, i, prevOuts[i].Value)
		if err != nil {
			return walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("sighash for input %d: %w", i, err))
		}
		sig, err := rusbycrypto.SignDER(priv, hash)
		if err != nil {
			return err
		}
		tx.TxIn[i].Witness = wire.TxWitness{append(sig, byte(txscript.SigHashAll)), pub}
	}
	return nil
}

func signLegacy(tx *wire.MsgTx, prevOuts []*wire.TxOut, priv, pub []byte) error {
	scripts := make([][]byte, len(tx.TxIn))
	for i := range tx.TxIn {
		hash, err := txscript.CalcSignatureHash(prevOuts[i].PkScript, txscript.SigHashAll, tx, i)
		if err != nil {
			return walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("sighash for input %d: %w", i, err))
		}
		sig, err := rusbycrypto.SignDER(priv, hash)
		if err != nil {
			return err
		}
		script, err := txscript.NewScriptBuilder().
			AddData(append(sig, byte(txscript.SigHashAll))).
			AddData(pub).
			Script()
		if err != nil {
			return walleterr.WithCause(walleterr.ErrCrypto, err)
		}
		scripts[i] = script
	}
	for i, script := range scripts {
		tx.TxIn[i].SignatureScript = script
	}
	return nil
}
