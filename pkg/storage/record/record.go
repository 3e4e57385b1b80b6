package record

import (
	"fmt"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

// Record is one decoded row or index entry: the values in storage order.
type Record struct {
	Values []types.Value
}

// Len returns the number of columns in the record.
func (r *Record) Len() int {
	return len(r.Values)
}

// Decode parses a fully assembled record payload: a header varint giving the
// header length (its own bytes included), one serial-type varint per column,
// then the value bodies back to back in column order.
//
// Rows written against an older schema may carry fewer columns than the
// current DDL declares; callers treat missing trailing columns as NULL.
func Decode(payload []byte, enc page.Encoding) (*Record, error) {
	headerLen, n, err := Varint(payload)
	if err != nil {
		return nil, err
	}
	if headerLen < uint64(n) || headerLen > uint64(len(payload)) {
		return nil, sqlerr.New(sqlerr.CodeTruncatedRecord, "record header length outside payload").
			WithDetail(fmt.Sprintf("header %d bytes, payload %d", headerLen, len(payload)))
	}

	var codes []uint64
	for pos := uint64(n); pos < headerLen; {
		code, used, err := Varint(payload[pos:headerLen])
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
		pos += uint64(used)
	}

	values := make([]types.Value, 0, len(codes))
	body := payload[headerLen:]
	for i, code := range codes {
		size, err := serialSize(code)
		if err != nil {
			return nil, err
		}
		if size > int64(len(body)) {
			return nil, sqlerr.New(sqlerr.CodeTruncatedRecord, "value body runs past end of payload").
				WithDetail(fmt.Sprintf("column %d needs %d bytes, %d left", i, size, len(body)))
		}
		v, err := decodeSerial(code, body[:size], enc)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		body = body[size:]
	}

	return &Record{Values: values}, nil
}
