package tx

import (
	"errors"
	"fmt"

	"github.com/qmesh-im/qwallet/pkg/types"
)

// Assembly errors.
var (
	ErrMissingRecipient = errors.New("missing recipient address")
	ErrMissingAmount    = errors.New("missing amount")
	ErrMissingToken     = errors.New("missing token")
	ErrAlreadyAssembled = errors.New("transfer already assembled")
	ErrAlreadySigned    = errors.New("signature already attached")
	ErrNotAssembled     = errors.New("transfer not assembled")
)

// TransferParams carries everything needed to assemble a fund transfer.
//
// UTXO order is preserved verbatim into input items. NetworkFee and
// NetworkFeeAddr must be supplied together to take effect, as must
// ChangeAddr and ChangeAmount. Token is required by the node's validator
// even though it never appears in the serialized output items.
type TransferParams struct {
	UTXOs          []types.UtxoRef `json:"utxos"`
	To             string          `json:"to"`
	Amount         types.Amount    `json:"amount"`
	NetworkFee     types.Amount    `json:"network_fee,omitempty"`
	NetworkFeeAddr string          `json:"network_fee_addr,omitempty"`
	ValidatorFee   types.Amount    `json:"validator_fee,omitempty"`
	ChangeAddr     string          `json:"change_addr,omitempty"`
	ChangeAmount   types.Amount    `json:"change_amount,omitempty"`
	Token          string          `json:"token"`
}

// validate checks the required parameters. An empty UTXO set is allowed:
// whether a transaction with zero inputs is acceptable is the remote
// validator's call, not ours.
func (p *TransferParams) validate() error {
	if p.To == "" {
		return ErrMissingRecipient
	}
	if p.Amount == "" {
		return ErrMissingAmount
	}
	if _, err := types.ParseAmount(string(p.Amount)); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if p.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// Assembler drives an ItemBuilder through the full item sequence of one
// transfer. A finished document flows out of Finalize exactly once; the
// assembler holds no state shared across invocations.
type Assembler struct {
	b         *ItemBuilder
	assembled bool
	signed    bool
}

// NewAssembler creates an assembler with a fresh builder.
func NewAssembler() *Assembler {
	return &Assembler{b: NewItemBuilder()}
}

// Assemble emits the transfer's items in wire order:
//
//  1. one "in" item per UTXO, in the caller's order
//  2. the recipient "out" item (no token field, by protocol contract)
//  3. a network-fee "out" item, if both fee and address are supplied
//  4. a validator-fee "out_cond" item, if supplied
//  5. a change "out" item, if both address and amount are supplied
//
// A failure at any step leaves no usable partial document behind.
func (a *Assembler) Assemble(p TransferParams) error {
	if a.assembled {
		return ErrAlreadyAssembled
	}
	if err := p.validate(); err != nil {
		return err
	}

	for i, ref := range p.UTXOs {
		if err := a.b.Append(encodeInItem(ref)); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	if err := a.b.Append(encodeOutItem(p.To, p.Amount)); err != nil {
		return fmt.Errorf("recipient output: %w", err)
	}
	if p.NetworkFee != "" && p.NetworkFeeAddr != "" {
		if err := a.b.Append(encodeOutItem(p.NetworkFeeAddr, p.NetworkFee)); err != nil {
			return fmt.Errorf("network fee output: %w", err)
		}
	}
	if p.ValidatorFee != "" {
		if err := a.b.Append(encodeFeeItem(p.ValidatorFee)); err != nil {
			return fmt.Errorf("validator fee: %w", err)
		}
	}
	if p.ChangeAddr != "" && p.ChangeAmount != "" {
		if err := a.b.Append(encodeOutItem(p.ChangeAddr, p.ChangeAmount)); err != nil {
			return fmt.Errorf("change output: %w", err)
		}
	}

	a.assembled = true
	return nil
}

// Unsigned returns the serialized item bytes an external signer must
// cover: everything emitted so far, excluding the document framing and
// the eventual sign item.
func (a *Assembler) Unsigned() []byte {
	return a.b.ItemsBytes()
}

// Items returns the number of items emitted so far.
func (a *Assembler) Items() int {
	return a.b.Items()
}

// AddSignature appends the sign item. It must be the last item, so at
// most one signature can be attached.
func (a *Assembler) AddSignature(pubKey, sig []byte) error {
	if !a.assembled {
		return ErrNotAssembled
	}
	if a.signed {
		return ErrAlreadySigned
	}
	item, err := EncodeSignItem(pubKey, sig)
	if err != nil {
		return err
	}
	if err := a.b.Append(item); err != nil {
		return fmt.Errorf("sign item: %w", err)
	}
	a.signed = true
	return nil
}

// Finalize closes the document with the given creation timestamp (Unix
// seconds) and returns its bytes. The assembler cannot be reused.
func (a *Assembler) Finalize(tsCreated int64) ([]byte, error) {
	if !a.assembled {
		return nil, ErrNotAssembled
	}
	return a.b.Finalize(tsCreated)
}
