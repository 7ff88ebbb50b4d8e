// Package tx assembles fund-transfer transactions in the exact JSON form
// the ledger node's parser accepts. Field names, field order, omissions
// and the base64 variant are all wire contracts: the node silently
// rejects anything else, so items are rendered by hand rather than
// through reflection.
package tx

import (
	"errors"
	"strconv"
)

// Builder errors.
var (
	// ErrFinalized is returned when a builder is used after Finalize
	// handed its buffer to the caller.
	ErrFinalized = errors.New("builder already finalized")
	// ErrEmptyItem is returned when an empty item is appended.
	ErrEmptyItem = errors.New("empty item")
)

// Document framing around the items array.
const (
	docOpen      = `{"items":[`
	docTsCreated = `],"ts_created":`
	docClose     = `,"datum_type":"tx"}`
)

// initialCap is the starting buffer capacity. A one-input one-output
// transfer with a Dilithium sign item runs to roughly 10 KiB of base64.
const initialCap = 1024

// ItemBuilder accumulates serialized transaction items into the
// document's "items" array. It owns comma placement between items and
// grows its backing buffer geometrically, never truncating content.
// One builder serves one document; Finalize hands the buffer to the
// caller and poisons the builder against reuse.
type ItemBuilder struct {
	buf       []byte
	items     int
	finalized bool
}

// NewItemBuilder creates a builder with the document opened and the
// items array ready to receive entries.
func NewItemBuilder() *ItemBuilder {
	b := &ItemBuilder{buf: make([]byte, 0, initialCap)}
	b.buf = append(b.buf, docOpen...)
	return b
}

// Append adds one serialized item, inserting the separating comma when
// the item is not the first. Amortized O(1).
func (b *ItemBuilder) Append(item []byte) error {
	if b.finalized {
		return ErrFinalized
	}
	if len(item) == 0 {
		return ErrEmptyItem
	}
	b.grow(len(item) + 1)
	if b.items > 0 {
		b.buf = append(b.buf, ',')
	}
	b.buf = append(b.buf, item...)
	b.items++
	return nil
}

// Items returns the number of items appended so far.
func (b *ItemBuilder) Items() int {
	return b.items
}

// ItemsBytes returns a copy of the serialized items emitted so far,
// without the document framing. This is the byte range an external
// signer covers.
func (b *ItemBuilder) ItemsBytes() []byte {
	if b.finalized {
		return nil
	}
	body := b.buf[len(docOpen):]
	out := make([]byte, len(body))
	copy(out, body)
	return out
}

// Finalize closes the items array, appends the creation timestamp and
// datum type tag, and transfers buffer ownership to the caller. The
// builder is unusable afterwards.
func (b *ItemBuilder) Finalize(tsCreated int64) ([]byte, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.grow(len(docTsCreated) + 20 + len(docClose))
	b.buf = append(b.buf, docTsCreated...)
	b.buf = strconv.AppendInt(b.buf, tsCreated, 10)
	b.buf = append(b.buf, docClose...)

	out := b.buf
	b.buf = nil
	b.finalized = true
	return out, nil
}

// grow ensures capacity for n more bytes, at least doubling the backing
// array when it must reallocate.
func (b *ItemBuilder) grow(n int) {
	if cap(b.buf)-len(b.buf) >= n {
		return
	}
	newCap := cap(b.buf) * 2
	if newCap == 0 {
		newCap = initialCap
	}
	for newCap-len(b.buf) < n {
		newCap *= 2
	}
	next := make([]byte, len(b.buf), newCap)
	copy(next, b.buf)
	b.buf = next
}
