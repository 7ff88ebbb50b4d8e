package types

import "fmt"

// UtxoRef identifies a spendable prior output on the ledger.
// Sequence order of UtxoRefs is caller-significant: it becomes the
// input-item order in the serialized transaction.
type UtxoRef struct {
	PrevHash Hash   `json:"prev_hash"`
	PrevIdx  uint32 `json:"out_prev_idx"`
}

// IsZero returns true if the ref has a zero hash and zero index.
func (u UtxoRef) IsZero() bool {
	return u.PrevHash.IsZero() && u.PrevIdx == 0
}

// String returns "0xHASH:index".
func (u UtxoRef) String() string {
	return fmt.Sprintf("%s:%d", u.PrevHash.String(), u.PrevIdx)
}
