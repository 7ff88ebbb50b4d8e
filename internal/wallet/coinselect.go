// Package wallet holds the funding-side logic around transaction
// assembly: choosing which UTXOs to spend and computing change. UTXO
// discovery itself belongs to the balance collaborator; this package
// only works with what it is handed.
package wallet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/qmesh-im/qwallet/internal/log"
	"github.com/qmesh-im/qwallet/pkg/types"
)

// Coin selection errors.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoUTXOs           = errors.New("no UTXOs available")
)

// UTXO is a spendable output as reported by the balance collaborator.
// The wire tags match the node's UTXO listing so files and RPC results
// decode directly.
type UTXO struct {
	PrevHash types.Hash   `json:"prev_hash"`
	PrevIdx  uint32       `json:"out_prev_idx"`
	Value    types.Amount `json:"value"`
}

// Ref returns the input reference for this UTXO.
func (u UTXO) Ref() types.UtxoRef {
	return types.UtxoRef{PrevHash: u.PrevHash, PrevIdx: u.PrevIdx}
}

// CoinSelection holds the result of coin selection.
type CoinSelection struct {
	Inputs []UTXO          // Selected UTXOs to spend.
	Total  decimal.Decimal // Sum of selected input values.
	Change decimal.Decimal // Change = Total - target.
}

// Refs returns the input references of the selection, in spend order.
func (s *CoinSelection) Refs() []types.UtxoRef {
	refs := make([]types.UtxoRef, len(s.Inputs))
	for i, u := range s.Inputs {
		refs[i] = u.Ref()
	}
	return refs
}

// candidate pairs a UTXO with its parsed value so amounts are decoded once.
type candidate struct {
	utxo  UTXO
	value decimal.Decimal
}

// SelectCoins chooses UTXOs to fund a transfer of the given target
// amount (recipient amount plus all fees). It tries two strategies:
//  1. Single UTXO: the smallest single UTXO that covers the target.
//  2. Largest-first accumulation: greedily adds the largest UTXOs until
//     the target is met.
//
// Returns the strategy that produces the least change (waste).
func SelectCoins(utxos []UTXO, target decimal.Decimal) (*CoinSelection, error) {
	if len(utxos) == 0 {
		return nil, ErrNoUTXOs
	}
	if !target.IsPositive() {
		return nil, fmt.Errorf("target must be positive")
	}

	// Drop zero-value UTXOs and sort by value ascending.
	candidates := make([]candidate, 0, len(utxos))
	for _, u := range utxos {
		v, err := u.Value.Decimal()
		if err != nil {
			return nil, fmt.Errorf("utxo %s: %w", u.Ref(), err)
		}
		if v.IsPositive() {
			candidates = append(candidates, candidate{utxo: u, value: v})
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoUTXOs
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value.LessThan(candidates[j].value)
	})

	// Strategy 1: Single UTXO, the smallest one that covers the target.
	var single *CoinSelection
	for _, c := range candidates {
		if c.value.GreaterThanOrEqual(target) {
			single = &CoinSelection{
				Inputs: []UTXO{c.utxo},
				Total:  c.value,
				Change: c.value.Sub(target),
			}
			break // Sorted ascending, first match is smallest.
		}
	}

	// Strategy 2: Largest-first accumulation.
	var accum *CoinSelection
	var selected []UTXO
	total := decimal.Zero
	for i := len(candidates) - 1; i >= 0; i-- {
		selected = append(selected, candidates[i].utxo)
		total = total.Add(candidates[i].value)
		if total.GreaterThanOrEqual(target) {
			accum = &CoinSelection{
				Inputs: selected,
				Total:  total,
				Change: total.Sub(target),
			}
			break
		}
	}

	var sel *CoinSelection
	switch {
	case single != nil && accum != nil:
		// Prefer whichever produces less change (less waste).
		if single.Change.LessThanOrEqual(accum.Change) {
			sel = single
		} else {
			sel = accum
		}
	case single != nil:
		sel = single
	case accum != nil:
		sel = accum
	default:
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, total, target)
	}

	log.Wallet.Debug().
		Str("target", target.String()).
		Int("inputs", len(sel.Inputs)).
		Str("change", sel.Change.String()).
		Msg("Selected coins")
	return sel, nil
}
