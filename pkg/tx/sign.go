package tx

import (
	"encoding/base64"
	"errors"
	"strconv"

	"github.com/qmesh-im/qwallet/pkg/crypto"
)

// Sign-item errors.
var (
	ErrEmptyPubKey    = errors.New("empty public key")
	ErrEmptySignature = errors.New("empty signature")
)

// hashTypeDefault is the only hash type the node accepts on sign items.
const hashTypeDefault = 1

// b64Alphabet is the exact alphabet the node's base64 decoder uses.
// Spelled out rather than aliased to the stdlib constant so the wire
// contract is visible and testable in one place.
const b64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// B64Encoding encodes key and signature material for sign items:
// 3-byte groups to 4 characters, partial trailing groups padded with '='.
var B64Encoding = base64.NewEncoding(b64Alphabet)

// EncodeSignItem builds the sign item from raw public key and signature
// bytes:
//
//	{"type":"sign","sig_type":"sig_dil","pub_key_size":N,"sig_size":N,
//	 "hash_type":1,"pub_key_b64":"…","sig_b64":"…"}
//
// Sizes are taken from the input buffer lengths, not from any scheme
// constant, so callers must pass true key and signature material.
func EncodeSignItem(pubKey, sig []byte) ([]byte, error) {
	if len(pubKey) == 0 {
		return nil, ErrEmptyPubKey
	}
	if len(sig) == 0 {
		return nil, ErrEmptySignature
	}

	pubB64 := B64Encoding.EncodeToString(pubKey)
	sigB64 := B64Encoding.EncodeToString(sig)

	buf := make([]byte, 0, 128+len(pubB64)+len(sigB64))
	buf = append(buf, `{"type":"sign","sig_type":"`...)
	buf = append(buf, crypto.SigTypeDilithium...)
	buf = append(buf, `","pub_key_size":`...)
	buf = strconv.AppendInt(buf, int64(len(pubKey)), 10)
	buf = append(buf, `,"sig_size":`...)
	buf = strconv.AppendInt(buf, int64(len(sig)), 10)
	buf = append(buf, `,"hash_type":`...)
	buf = strconv.AppendInt(buf, hashTypeDefault, 10)
	buf = append(buf, `,"pub_key_b64":"`...)
	buf = append(buf, pubB64...)
	buf = append(buf, `","sig_b64":"`...)
	buf = append(buf, sigB64...)
	buf = append(buf, `"}`...)
	return buf, nil
}
