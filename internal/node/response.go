package node

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Decode errors. Transport failures are a different kind (see Client);
// a reply that parses but misses fields is not an error at all.
var (
	ErrEmptyReply = errors.New("empty reply")
	ErrBadReply   = errors.New("reply is not valid JSON")
	ErrNotObject  = errors.New("reply is not a JSON object")
)

// Response is the node's reply envelope. Any field may be absent in a
// malformed reply; absent or mistyped fields default to their zero value.
// Result is kept opaque: its schema depends on the request method and is
// the caller's business.
type Response struct {
	Type    int             `json:"type"`
	Result  json.RawMessage `json:"result"`
	ID      int             `json:"id"`
	Version int             `json:"version"`
}

// DecodeResponse parses raw reply bytes into a Response. Each envelope
// field is read independently: a field that is missing or carries the
// wrong JSON type is left at its zero value rather than failing the
// whole reply.
func DecodeResponse(raw []byte) (*Response, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyReply
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: got %s", ErrNotObject, typeErr.Value)
		}
		return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
	}

	resp := &Response{}
	if v, ok := fields["type"]; ok {
		_ = json.Unmarshal(v, &resp.Type)
	}
	if v, ok := fields["result"]; ok {
		resp.Result = v
	}
	if v, ok := fields["id"]; ok {
		_ = json.Unmarshal(v, &resp.ID)
	}
	if v, ok := fields["version"]; ok {
		_ = json.Unmarshal(v, &resp.Version)
	}
	return resp, nil
}
