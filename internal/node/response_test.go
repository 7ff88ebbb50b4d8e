package node

import (
	"errors"
	"testing"
)

func TestDecodeResponse_Empty(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("   \n")} {
		_, err := DecodeResponse(raw)
		if !errors.Is(err, ErrEmptyReply) {
			t.Errorf("DecodeResponse(%q) = %v, want ErrEmptyReply", raw, err)
		}
	}
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	for _, raw := range []string{"{", `{"id":`, "garbage"} {
		_, err := DecodeResponse([]byte(raw))
		if !errors.Is(err, ErrBadReply) {
			t.Errorf("DecodeResponse(%q) = %v, want ErrBadReply", raw, err)
		}
	}
}

func TestDecodeResponse_NotObject(t *testing.T) {
	for _, raw := range []string{`[1,2]`, `"hello"`, `42`, `true`} {
		_, err := DecodeResponse([]byte(raw))
		if !errors.Is(err, ErrNotObject) {
			t.Errorf("DecodeResponse(%q) = %v, want ErrNotObject", raw, err)
		}
	}
}

func TestDecodeResponse_Full(t *testing.T) {
	raw := []byte(`{"type":2,"result":{"hash":"0xAB"},"id":7,"version":1}`)
	resp, err := DecodeResponse(raw)
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if resp.Type != 2 || resp.ID != 7 || resp.Version != 1 {
		t.Errorf("envelope = %+v", resp)
	}
	if string(resp.Result) != `{"hash":"0xAB"}` {
		t.Errorf("result = %s", resp.Result)
	}
}

func TestDecodeResponse_MissingFieldsDefault(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"id":5}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if resp.ID != 5 {
		t.Errorf("id = %d, want 5", resp.ID)
	}
	if resp.Type != 0 || resp.Version != 0 || resp.Result != nil {
		t.Errorf("missing fields not zero-defaulted: %+v", resp)
	}
}

func TestDecodeResponse_MistypedFieldTolerated(t *testing.T) {
	// A string where an int belongs must not fail the whole reply.
	resp, err := DecodeResponse([]byte(`{"type":"weird","id":3}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if resp.Type != 0 {
		t.Errorf("mistyped type = %d, want 0", resp.Type)
	}
	if resp.ID != 3 {
		t.Errorf("id = %d, want 3", resp.ID)
	}
}

func TestDecodeResponse_EmptyObject(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if resp.Type != 0 || resp.ID != 0 || resp.Version != 0 || resp.Result != nil {
		t.Errorf("empty object should decode to zero envelope: %+v", resp)
	}
}
