// Package types defines core primitive types shared by the wallet pipeline.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HashSize is the length of a ledger hash in bytes.
const HashSize = 32

// hashPrefix is the fixed prefix the node's parser expects on every
// serialized hash.
const hashPrefix = "0x"

// Hash represents a 256-bit ledger hash.
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String renders the hash exactly as the node's parser expects it:
// "0x" followed by 64 uppercase hex characters.
func (h Hash) String() string {
	return hashPrefix + fmt.Sprintf("%X", h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash in the node's wire form.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash. The prefix and letter
// case are accepted loosely on input; rendering is always strict.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HexToHash converts a hex string (with or without the "0x" prefix) to a
// Hash. Returns an error unless the string holds exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	s = strings.TrimPrefix(s, hashPrefix)
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
