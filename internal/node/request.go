// Package node provides the JSON-RPC client used to talk to a ledger node.
package node

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingMethod is returned when a request is built without a method.
var ErrMissingMethod = errors.New("missing RPC method")

// emptyArgs is the default arguments payload. The node's parser requires
// an object here, never null or an absent key.
var emptyArgs = json.RawMessage(`{}`)

// Request is the node's RPC envelope. Subcommand is always serialized,
// as the empty string rather than an absent key when unused. Both quirks are
// parser contracts on the node side.
type Request struct {
	Method     string          `json:"method"`
	Subcommand string          `json:"subcommand"`
	Arguments  json.RawMessage `json:"arguments"`
	ID         int             `json:"id"`
}

// NewRequest builds a request envelope. args may be nil (serialized as
// an empty object), a prebuilt JSON payload ([]byte or json.RawMessage),
// or any JSON-marshalable value.
func NewRequest(method, subcommand string, args interface{}, id int) (*Request, error) {
	if method == "" {
		return nil, ErrMissingMethod
	}

	raw := emptyArgs
	switch v := args.(type) {
	case nil:
	case json.RawMessage:
		raw = v
	case []byte:
		raw = json.RawMessage(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal arguments: %w", err)
		}
		raw = b
	}
	if len(raw) == 0 {
		raw = emptyArgs
	}

	return &Request{
		Method:     method,
		Subcommand: subcommand,
		Arguments:  raw,
		ID:         id,
	}, nil
}

// Encode serializes the request envelope.
func (r *Request) Encode() ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return body, nil
}
