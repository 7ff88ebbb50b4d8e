package node

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/qmesh-im/qwallet/internal/log"
)

// DefaultTimeout bounds a single request/response exchange. The node
// protocol itself specifies no timeout; an unbounded wait is an
// operational hazard, so the client always applies one.
const DefaultTimeout = 10 * time.Second

// Client is a JSON-RPC HTTP client for a ledger node.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Int64
}

// New creates a client targeting the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, DefaultTimeout)
}

// NewWithTimeout creates a client with a custom HTTP timeout.
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Submit POSTs an encoded request envelope and returns the full raw
// reply body. The body is accumulated completely before returning; a
// transport-level failure yields an error and no partial data.
func (c *Client) Submit(req *Request) ([]byte, error) {
	body, err := req.Encode()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %s", resp.Status)
	}

	log.RPC.Debug().
		Str("method", req.Method).
		Str("subcommand", req.Subcommand).
		Int("reply_bytes", len(data)).
		Msg("rpc exchange")

	return data, nil
}

// Call builds, submits and decodes a request in one step.
func (c *Client) Call(method, subcommand string, args interface{}) (*Response, error) {
	req, err := NewRequest(method, subcommand, args, int(c.nextID.Add(1)))
	if err != nil {
		return nil, err
	}
	raw, err := c.Submit(req)
	if err != nil {
		return nil, err
	}
	return DecodeResponse(raw)
}
