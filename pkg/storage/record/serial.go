package record

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

// serialSize returns the body length in bytes for a serial type code.
// Codes 10 and 11 are reserved and never valid in a record.
func serialSize(code uint64) (int64, error) {
	switch code {
	case 0, 8, 9:
		return 0, nil
	case 1:
		return 1, nil
	case 2:
		return 2, nil
	case 3:
		return 3, nil
	case 4:
		return 4, nil
	case 5:
		return 6, nil
	case 6, 7:
		return 8, nil
	case 10, 11:
		return 0, sqlerr.New(sqlerr.CodeUnknownSerialType, "reserved serial type").
			WithDetail(fmt.Sprintf("code %d", code))
	default:
		if code&1 == 0 {
			return int64(code-12) / 2, nil
		}
		return int64(code-13) / 2, nil
	}
}

// decodeSerial turns one serial-typed body into a value. body is exactly
// serialSize(code) bytes.
func decodeSerial(code uint64, body []byte, enc page.Encoding) (types.Value, error) {
	switch code {
	case 0:
		return types.Null, nil
	case 1, 2, 3, 4, 5, 6:
		return types.NewInteger(signExtend(body)), nil
	case 7:
		return types.NewFloat(math.Float64frombits(binary.BigEndian.Uint64(body))), nil
	case 8:
		return types.NewInteger(0), nil
	case 9:
		return types.NewInteger(1), nil
	case 10, 11:
		return nil, sqlerr.New(sqlerr.CodeUnknownSerialType, "reserved serial type").
			WithDetail(fmt.Sprintf("code %d", code))
	default:
		if code&1 == 0 {
			return types.NewBlob(body), nil
		}
		return types.NewText(decodeText(body, enc)), nil
	}
}

// signExtend reads 1..8 big-endian bytes as a two's-complement integer.
// The odd widths (3 and 6 bytes) need the shift pair; the full widths get
// it for free.
func signExtend(body []byte) int64 {
	var v uint64
	for _, b := range body {
		v = v<<8 | uint64(b)
	}
	shift := 64 - 8*len(body)
	return int64(v<<shift) >> shift // #nosec G115
}

// decodeText converts stored text bytes to a Go string using the file's
// declared encoding. A trailing odd byte under UTF-16 is dropped rather
// than failing the row.
func decodeText(body []byte, enc page.Encoding) string {
	switch enc {
	case page.EncodingUTF16LE:
		units := make([]uint16, 0, len(body)/2)
		for i := 0; i+1 < len(body); i += 2 {
			units = append(units, binary.LittleEndian.Uint16(body[i:]))
		}
		return string(utf16.Decode(units))
	case page.EncodingUTF16BE:
		units := make([]uint16, 0, len(body)/2)
		for i := 0; i+1 < len(body); i += 2 {
			units = append(units, binary.BigEndian.Uint16(body[i:]))
		}
		return string(utf16.Decode(units))
	default:
		return string(body)
	}
}
