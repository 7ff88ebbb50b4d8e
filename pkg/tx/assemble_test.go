package tx

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/qmesh-im/qwallet/pkg/types"
)

func testUtxo(b byte, idx uint32) types.UtxoRef {
	var h types.Hash
	h[0] = b
	return types.UtxoRef{PrevHash: h, PrevIdx: idx}
}

// decodeItems parses a finalized document and returns its items as maps.
func decodeItems(t *testing.T, doc []byte) []map[string]interface{} {
	t.Helper()
	var parsed struct {
		Items     []map[string]interface{} `json:"items"`
		TsCreated int64                    `json:"ts_created"`
		DatumType string                   `json:"datum_type"`
	}
	if err := json.Unmarshal(doc, &parsed); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if parsed.DatumType != "tx" {
		t.Errorf("datum_type = %q, want %q", parsed.DatumType, "tx")
	}
	return parsed.Items
}

func TestAssembler_MinimalTransfer(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		UTXOs:  []types.UtxoRef{testUtxo(0x01, 0)},
		To:     "Tabc",
		Amount: "1.0",
		Token:  "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if a.Items() != 2 {
		t.Fatalf("items before signing = %d, want 2", a.Items())
	}

	if err := a.AddSignature([]byte{0x01}, []byte{0x02}); err != nil {
		t.Fatalf("AddSignature() error: %v", err)
	}
	if a.Items() != 3 {
		t.Fatalf("items after signing = %d, want 3", a.Items())
	}

	doc, err := a.Finalize(1700000000)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	items := decodeItems(t, doc)
	if len(items) != 3 {
		t.Fatalf("decoded items = %d, want 3", len(items))
	}
	wantTypes := []string{"in", "out", "sign"}
	for i, want := range wantTypes {
		if got := items[i]["type"]; got != want {
			t.Errorf("item %d type = %v, want %q", i, got, want)
		}
	}
}

func TestAssembler_ExactDocument(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		UTXOs:  []types.UtxoRef{testUtxo(0xFF, 2)},
		To:     "Tabc",
		Amount: "1.0",
		Token:  "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	doc, err := a.Finalize(1700000000)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	want := `{"items":[` +
		`{"type":"in","prev_hash":"0xFF` + strings.Repeat("0", 62) + `","out_prev_idx":2},` +
		`{"type":"out","addr":"Tabc","value":"1.0"}` +
		`],"ts_created":1700000000,"datum_type":"tx"}`
	if string(doc) != want {
		t.Errorf("document =\n%s\nwant\n%s", doc, want)
	}
}

func TestAssembler_FullItemOrder(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		UTXOs:          []types.UtxoRef{testUtxo(0x01, 0), testUtxo(0x02, 1), testUtxo(0x03, 7)},
		To:             "Trecipient",
		Amount:         "10",
		NetworkFee:     "0.05",
		NetworkFeeAddr: "Tnetfee",
		ValidatorFee:   "0.001",
		ChangeAddr:     "Tchange",
		ChangeAmount:   "2.949",
		Token:          "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if err := a.AddSignature([]byte{0xAA}, []byte{0xBB}); err != nil {
		t.Fatalf("AddSignature() error: %v", err)
	}
	doc, err := a.Finalize(99)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	items := decodeItems(t, doc)
	wantTypes := []string{"in", "in", "in", "out", "out", "out_cond", "out", "sign"}
	if len(items) != len(wantTypes) {
		t.Fatalf("item count = %d, want %d", len(items), len(wantTypes))
	}
	for i, want := range wantTypes {
		if got := items[i]["type"]; got != want {
			t.Errorf("item %d type = %v, want %q", i, got, want)
		}
	}

	// Input order preserved verbatim.
	wantIdx := []float64{0, 1, 7}
	for i, want := range wantIdx {
		if got := items[i]["out_prev_idx"]; got != want {
			t.Errorf("input %d out_prev_idx = %v, want %v", i, got, want)
		}
	}

	// Addresses land in the contractual positions.
	if items[3]["addr"] != "Trecipient" || items[4]["addr"] != "Tnetfee" || items[6]["addr"] != "Tchange" {
		t.Errorf("output addresses misplaced: %v %v %v", items[3]["addr"], items[4]["addr"], items[6]["addr"])
	}

	// Fee item carries the fixed out_cond fields.
	fee := items[5]
	if fee["subtype"] != "fee" || fee["ts_expires"] != "never" || fee["service_id"] != "0x0000000000000000" {
		t.Errorf("fee item = %v", fee)
	}
	if fee["value"] != "0.001" {
		t.Errorf("fee value = %v, want %q", fee["value"], "0.001")
	}
}

func TestAssembler_NoTokenFieldOnOutputs(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		UTXOs:        []types.UtxoRef{testUtxo(0x01, 0)},
		To:           "Tabc",
		Amount:       "1.0",
		ChangeAddr:   "Tchange",
		ChangeAmount: "0.5",
		Token:        "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	doc, err := a.Finalize(1)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if strings.Contains(string(doc), "token") {
		t.Errorf("document must never carry a token key: %s", doc)
	}
	for i, item := range decodeItems(t, doc) {
		if _, ok := item["token"]; ok {
			t.Errorf("item %d carries a token field", i)
		}
	}
}

func TestAssembler_AmountsStayDecimalStrings(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		To:     "Tabc",
		Amount: "184467440737095516.150000000000000001",
		Token:  "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	doc, _ := a.Finalize(1)
	if !strings.Contains(string(doc), `"value":"184467440737095516.150000000000000001"`) {
		t.Errorf("amount not preserved as decimal string: %s", doc)
	}
}

func TestAssembler_EmptyUTXOsAllowed(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		To:     "Tabc",
		Amount: "1.0",
		Token:  "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() with zero UTXOs error: %v", err)
	}
	if a.Items() != 1 {
		t.Errorf("items = %d, want 1 (recipient out only)", a.Items())
	}
}

func TestAssembler_MissingParams(t *testing.T) {
	cases := []struct {
		name   string
		params TransferParams
		want   error
	}{
		{"recipient", TransferParams{Amount: "1", Token: "CELL"}, ErrMissingRecipient},
		{"amount", TransferParams{To: "T", Token: "CELL"}, ErrMissingAmount},
		{"token", TransferParams{To: "T", Amount: "1"}, ErrMissingToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewAssembler().Assemble(tc.params)
			if !errors.Is(err, tc.want) {
				t.Errorf("Assemble() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAssembler_RejectsBadAmount(t *testing.T) {
	err := NewAssembler().Assemble(TransferParams{To: "T", Amount: "1,5", Token: "CELL"})
	if err == nil {
		t.Error("Assemble() should reject a non-decimal amount")
	}
}

func TestAssembler_PartialFeeIgnored(t *testing.T) {
	// A network fee without its address (or vice versa) emits nothing.
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		To:         "Tabc",
		Amount:     "1.0",
		NetworkFee: "0.05",
		Token:      "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if a.Items() != 1 {
		t.Errorf("items = %d, want 1 (no fee output without address)", a.Items())
	}
}

func TestAssembler_UnsignedMatchesSignedPrefix(t *testing.T) {
	params := TransferParams{
		UTXOs:  []types.UtxoRef{testUtxo(0x05, 0)},
		To:     "Tabc",
		Amount: "3",
		Token:  "CELL",
	}

	a := NewAssembler()
	if err := a.Assemble(params); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	unsigned := a.Unsigned()

	// Re-assembly of the same params yields the identical signing payload,
	// so a detached signer can work from a reconstructed document.
	b := NewAssembler()
	if err := b.Assemble(params); err != nil {
		t.Fatalf("re-Assemble() error: %v", err)
	}
	if string(b.Unsigned()) != string(unsigned) {
		t.Error("signing payload is not deterministic across assemblies")
	}

	if err := a.AddSignature([]byte{1}, []byte{2}); err != nil {
		t.Fatalf("AddSignature() error: %v", err)
	}
	doc, _ := a.Finalize(5)
	if !strings.Contains(string(doc), string(unsigned)+`,{"type":"sign"`) {
		t.Error("sign item does not directly follow the signed byte range")
	}
}

func TestAssembler_Lifecycle(t *testing.T) {
	a := NewAssembler()

	if err := a.AddSignature([]byte{1}, []byte{2}); !errors.Is(err, ErrNotAssembled) {
		t.Errorf("AddSignature() before Assemble = %v, want ErrNotAssembled", err)
	}
	if _, err := a.Finalize(1); !errors.Is(err, ErrNotAssembled) {
		t.Errorf("Finalize() before Assemble = %v, want ErrNotAssembled", err)
	}

	params := TransferParams{To: "T", Amount: "1", Token: "CELL"}
	if err := a.Assemble(params); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	if err := a.Assemble(params); !errors.Is(err, ErrAlreadyAssembled) {
		t.Errorf("second Assemble() = %v, want ErrAlreadyAssembled", err)
	}

	if err := a.AddSignature([]byte{1}, []byte{2}); err != nil {
		t.Fatalf("AddSignature() error: %v", err)
	}
	if err := a.AddSignature([]byte{1}, []byte{2}); !errors.Is(err, ErrAlreadySigned) {
		t.Errorf("second AddSignature() = %v, want ErrAlreadySigned", err)
	}

	if _, err := a.Finalize(1); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if _, err := a.Finalize(1); !errors.Is(err, ErrFinalized) {
		t.Errorf("second Finalize() = %v, want ErrFinalized", err)
	}
}

func TestAssembler_EscapesStrings(t *testing.T) {
	a := NewAssembler()
	err := a.Assemble(TransferParams{
		To:     `T"quote\back`,
		Amount: "1",
		Token:  "CELL",
	})
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	doc, _ := a.Finalize(1)
	if !json.Valid(doc) {
		t.Fatalf("document with special chars is not valid JSON: %s", doc)
	}
	items := decodeItems(t, doc)
	if items[0]["addr"] != `T"quote\back` {
		t.Errorf("addr round trip = %v", items[0]["addr"])
	}
}
