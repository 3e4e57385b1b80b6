package page

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"litequery/pkg/sqlerr"
)

// HeaderSize is the length of the database file header at the start of page 1.
const HeaderSize = 100

// magic is the first 16 bytes of every well-formed database file.
var magic = []byte("SQLite format 3\x00")

// Encoding is the text encoding declared in the file header. All TEXT values
// in the file use this one encoding.
type Encoding uint32

const (
	EncodingUTF8    Encoding = 1
	EncodingUTF16LE Encoding = 2
	EncodingUTF16BE Encoding = 3
)

// String returns the name used by .dbinfo output.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "utf8"
	case EncodingUTF16LE:
		return "utf16le"
	case EncodingUTF16BE:
		return "utf16be"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(e))
	}
}

// Header is the decoded 100-byte database file header.
//
// Field offsets follow the file format: the page size is a big-endian u16 at
// offset 16 where the stored value 1 means 65536; all other multi-byte fields
// are big-endian u32.
type Header struct {
	PageSize        uint32 // power of two, 512..65536
	WriteVersion    uint8  // 1 legacy, 2 WAL
	ReadVersion     uint8
	ReservedSpace   uint8 // bytes reserved at the end of every page
	MaxPayloadFrac  uint8 // always 64
	MinPayloadFrac  uint8 // always 32
	LeafPayloadFrac uint8 // always 32
	ChangeCounter   uint32
	PageCount       uint32 // as stored; see Source.PageCount for the trusted value
	FreelistTrunk   uint32
	FreelistPages   uint32
	SchemaCookie    uint32
	SchemaFormat    uint32 // 1..4
	DefaultCache    uint32
	LargestRoot     uint32 // auto-vacuum only, else 0
	Encoding        Encoding
	UserVersion     uint32
	IncrVacuum      uint32
	ApplicationID   uint32
	VersionValidFor uint32 // change counter value the page count was valid for
	SQLiteVersion   uint32
}

// UsableSize returns the bytes per page available to the B-tree module:
// the page size minus the reserved region at the end of every page.
func (h *Header) UsableSize() uint32 {
	return h.PageSize - uint32(h.ReservedSpace)
}

// ParseHeader decodes and validates the 100-byte file header. Every failure
// is NOT_A_SQLITE_FILE: a file that fails any of these checks is not a
// database this engine can read.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "file smaller than the 100-byte header").
			WithDetail(fmt.Sprintf("%d bytes", len(buf)))
	}

	if !bytes.Equal(buf[0:16], magic) {
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "header magic mismatch")
	}

	pageSize, err := decodePageSize(binary.BigEndian.Uint16(buf[16:18]))
	if err != nil {
		return nil, err
	}

	h := &Header{
		PageSize:        pageSize,
		WriteVersion:    buf[18],
		ReadVersion:     buf[19],
		ReservedSpace:   buf[20],
		MaxPayloadFrac:  buf[21],
		MinPayloadFrac:  buf[22],
		LeafPayloadFrac: buf[23],
		ChangeCounter:   binary.BigEndian.Uint32(buf[24:28]),
		PageCount:       binary.BigEndian.Uint32(buf[28:32]),
		FreelistTrunk:   binary.BigEndian.Uint32(buf[32:36]),
		FreelistPages:   binary.BigEndian.Uint32(buf[36:40]),
		SchemaCookie:    binary.BigEndian.Uint32(buf[40:44]),
		SchemaFormat:    binary.BigEndian.Uint32(buf[44:48]),
		DefaultCache:    binary.BigEndian.Uint32(buf[48:52]),
		LargestRoot:     binary.BigEndian.Uint32(buf[52:56]),
		Encoding:        Encoding(binary.BigEndian.Uint32(buf[56:60])),
		UserVersion:     binary.BigEndian.Uint32(buf[60:64]),
		IncrVacuum:      binary.BigEndian.Uint32(buf[64:68]),
		ApplicationID:   binary.BigEndian.Uint32(buf[68:72]),
		VersionValidFor: binary.BigEndian.Uint32(buf[92:96]),
		SQLiteVersion:   binary.BigEndian.Uint32(buf[96:100]),
	}

	if h.MaxPayloadFrac != 64 || h.MinPayloadFrac != 32 || h.LeafPayloadFrac != 32 {
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "payload fractions are not 64/32/32").
			WithDetail(fmt.Sprintf("%d/%d/%d", h.MaxPayloadFrac, h.MinPayloadFrac, h.LeafPayloadFrac))
	}

	if h.Encoding < EncodingUTF8 || h.Encoding > EncodingUTF16BE {
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "invalid text encoding").
			WithDetail(fmt.Sprintf("encoding %d", uint32(h.Encoding)))
	}

	if h.SchemaFormat < 1 || h.SchemaFormat > 4 {
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "invalid schema format number").
			WithDetail(fmt.Sprintf("format %d", h.SchemaFormat))
	}

	// The format requires at least 480 usable bytes per page.
	if h.UsableSize() < 480 {
		return nil, sqlerr.New(sqlerr.CodeNotASQLiteFile, "reserved space leaves fewer than 480 usable bytes").
			WithDetail(fmt.Sprintf("page size %d, reserved %d", h.PageSize, h.ReservedSpace))
	}

	return h, nil
}

// decodePageSize applies the 65536 special case and validates the range.
// The stored value 1 means 65536, which does not fit the u16 field.
func decodePageSize(raw uint16) (uint32, error) {
	if raw == 1 {
		return 65536, nil
	}
	size := uint32(raw)
	if size < 512 || size&(size-1) != 0 {
		return 0, sqlerr.New(sqlerr.CodeNotASQLiteFile, "invalid page size").
			WithDetail(fmt.Sprintf("%d", raw))
	}
	return size, nil
}
