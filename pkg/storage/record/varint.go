// Package record decodes the record format: variable-length integers, serial
// types, and the header+body layout every table row and index entry uses.
// Decoding is schema-blind; giving decoded values column meaning is the
// caller's business.
package record

import (
	"litequery/pkg/sqlerr"
)

// MaxVarintLen is the longest legal varint encoding.
const MaxVarintLen = 9

// Varint decodes a big-endian base-128 varint from the start of buf,
// returning the value and the number of bytes consumed.
//
// Each of the first eight bytes contributes seven payload bits, with the
// high bit flagging continuation; a ninth byte, when reached, contributes
// all eight of its bits. Returns MALFORMED_VARINT when buf ends before a
// terminating byte.
func Varint(buf []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < MaxVarintLen; i++ {
		if i >= len(buf) {
			return 0, 0, sqlerr.New(sqlerr.CodeMalformedVarint, "varint runs past end of input")
		}
		b := buf[i]
		if i == MaxVarintLen-1 {
			return v<<8 | uint64(b), MaxVarintLen, nil
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, sqlerr.New(sqlerr.CodeMalformedVarint, "varint not terminated")
}
