package chain

import (
	"encoding/hex"
	"encoding/json"
)

// SignedTransaction is the only object a signer returns: bytes ready to
// broadcast as-is and the transaction hash in the chain's native form.
type SignedTransaction struct {
	ChainID  ID
	RawBytes []byte
	TxHash   string
}

// RawHex returns RawBytes as lowercase hex.
func (t *SignedTransaction) RawHex() string {
	return hex.EncodeToString(t.RawBytes)
}

type signedTransactionJSON struct {
	ChainID  ID     `json:"chain_id"`
	CAIP2    string `json:"caip2"`
	RawBytes string `json:"raw_bytes"`
	TxHash   string `json:"tx_hash"`
}

// MarshalJSON renders raw bytes as hex.
func (t SignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedTransactionJSON{
		ChainID:  t.ChainID,
		CAIP2:    t.ChainID.CAIP2(),
		RawBytes: hex.EncodeToString(t.RawBytes),
		TxHash:   t.TxHash,
	})
}
