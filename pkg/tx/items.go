package tx

import (
	"encoding/json"
	"strconv"

	"github.com/qmesh-im/qwallet/pkg/types"
)

// feeServiceID is the zero service id carried by every fee out_cond item.
const feeServiceID = "0x0000000000000000"

// encodeInItem renders an input item:
//
//	{"type":"in","prev_hash":"0x…","out_prev_idx":N}
func encodeInItem(ref types.UtxoRef) []byte {
	buf := make([]byte, 0, 112)
	buf = append(buf, `{"type":"in","prev_hash":"`...)
	buf = append(buf, ref.PrevHash.String()...)
	buf = append(buf, `","out_prev_idx":`...)
	buf = strconv.AppendUint(buf, uint64(ref.PrevIdx), 10)
	buf = append(buf, '}')
	return buf
}

// encodeOutItem renders an output item:
//
//	{"type":"out","addr":"…","value":"…"}
//
// There is never a token field here; the node's parser rejects one.
func encodeOutItem(addr string, value types.Amount) []byte {
	buf := make([]byte, 0, 48+len(addr)+len(value))
	buf = append(buf, `{"type":"out","addr":`...)
	buf = appendJSONString(buf, addr)
	buf = append(buf, `,"value":`...)
	buf = appendJSONString(buf, string(value))
	buf = append(buf, '}')
	return buf
}

// encodeFeeItem renders a validator-fee item as an out_cond with the
// fixed zero service id:
//
//	{"type":"out_cond","ts_expires":"never","value":"…","service_id":"0x0000000000000000","subtype":"fee"}
func encodeFeeItem(value types.Amount) []byte {
	buf := make([]byte, 0, 112+len(value))
	buf = append(buf, `{"type":"out_cond","ts_expires":"never","value":`...)
	buf = appendJSONString(buf, string(value))
	buf = append(buf, `,"service_id":"`...)
	buf = append(buf, feeServiceID...)
	buf = append(buf, `","subtype":"fee"}`...)
	return buf
}

// appendJSONString appends s as a JSON string literal, escaped.
func appendJSONString(buf []byte, s string) []byte {
	q, _ := json.Marshal(s) // marshaling a string cannot fail
	return append(buf, q...)
}
