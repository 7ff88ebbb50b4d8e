// Package crypto defines the wallet's contract with the ledger's
// post-quantum signature scheme. The scheme itself lives outside this
// module; the wallet only consumes sign/verify primitives with fixed
// key and signature lengths.
package crypto

import (
	"github.com/zeebo/blake3"

	"github.com/qmesh-im/qwallet/pkg/types"
)

// Byte lengths of the signature scheme's material. The sign-item encoder
// is size-agnostic; these are the sizes real signers produce.
const (
	PublicKeySize  = 2592
	PrivateKeySize = 4896
	SignatureSize  = 4627
)

// SigTypeDilithium is the wire tag identifying the scheme on signed items.
const SigTypeDilithium = "sig_dil"

// Signer produces signatures over serialized transaction items.
// Implementations are supplied by the host application.
type Signer interface {
	// Sign signs the given byte sequence and returns the raw signature.
	Sign(data []byte) ([]byte, error)
	// PublicKey returns the raw public key bytes.
	PublicKey() []byte
}

// Verifier checks signatures produced by a Signer.
type Verifier interface {
	Verify(data, signature, publicKey []byte) bool
}

// Digest computes the BLAKE3-256 content address of a serialized document.
// Used as the local identifier for submitted transactions.
func Digest(data []byte) types.Hash {
	return blake3.Sum256(data)
}
