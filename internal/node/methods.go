package node

import (
	"encoding/json"

	"github.com/qmesh-im/qwallet/pkg/types"
)

// Convenience wrappers: fixed method/subcommand/argument shaping over the
// same request/submit/decode pipeline. The result payloads stay opaque;
// their schemas belong to the node.

// SubmitTx submits a finalized transaction document.
func (c *Client) SubmitTx(doc []byte) (*Response, error) {
	return c.Call("tx", "submit", json.RawMessage(doc))
}

// GetTx fetches a transaction by its hash.
func (c *Client) GetTx(hash types.Hash) (*Response, error) {
	return c.Call("tx", "get", map[string]string{"hash": hash.String()})
}

// GetBlock fetches a block by its hash.
func (c *Client) GetBlock(hash types.Hash) (*Response, error) {
	return c.Call("block", "get", map[string]string{"hash": hash.String()})
}

// GetBalance fetches the spendable balance of an address for a token.
func (c *Client) GetBalance(addr, token string) (*Response, error) {
	return c.Call("balance", "", map[string]string{"addr": addr, "token": token})
}
