package record

import (
	"math"
	"testing"

	"litequery/internal/dbgen"
	"litequery/pkg/sqlerr"
)

func TestVarintKnownVectors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want uint64
		n    int
	}{
		{"zero", []byte{0x00}, 0, 1},
		{"one byte max", []byte{0x7f}, 127, 1},
		{"two bytes", []byte{0x81, 0x00}, 128, 2},
		{"two bytes full", []byte{0xff, 0x7f}, 16383, 2},
		{"ignores trailing bytes", []byte{0x07, 0xff}, 7, 1},
		{"nine bytes all ones", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, math.MaxUint64, 9},
		{"ninth byte contributes eight bits", []byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 1 << 56, 9},
	}

	for _, tt := range tests {
		v, n, err := Varint(tt.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if v != tt.want || n != tt.n {
			t.Errorf("%s: Varint = %d/%d, want %d/%d", tt.name, v, n, tt.want, tt.n)
		}
	}
}

func TestVarintTruncated(t *testing.T) {
	tests := [][]byte{
		{},
		{0x80},
		{0xff, 0xff},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, // eight continuations, no ninth byte
	}

	for _, in := range tests {
		_, _, err := Varint(in)
		if !sqlerr.HasCode(err, sqlerr.CodeMalformedVarint) {
			t.Errorf("Varint(% x) err = %v, want MALFORMED_VARINT", in, err)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 255, 16383, 16384,
		1<<21 - 1, 1 << 21, 1<<28 - 1, 1 << 28,
		1<<35 - 1, 1 << 42, 1<<49 - 1, 1<<56 - 1,
		1 << 56, math.MaxUint64,
		uint64(math.MaxInt64),
		// Two's-complement forms of negative rowids use all nine bytes.
		uint64(18446744073709551615), // -1
		uint64(18446744073709551493), // -123
	}

	for _, v := range values {
		enc := dbgen.AppendVarint(nil, v)
		got, n, err := Varint(enc)
		if err != nil {
			t.Errorf("value %d: %v", v, err)
			continue
		}
		if got != v {
			t.Errorf("round trip of %d yielded %d", v, got)
		}
		if n != len(enc) {
			t.Errorf("value %d: consumed %d of %d bytes", v, n, len(enc))
		}
		if len(enc) > MaxVarintLen {
			t.Errorf("value %d: encoding is %d bytes", v, len(enc))
		}
	}
}
