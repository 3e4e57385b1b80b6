// Package btree walks the table and index trees of a database file: lazy
// in-order cursors, rowid point lookups, index equality probes, and leaf
// cell counting. It trusts nothing about the file: every page type, cell
// pointer, and child reference is validated before use.
package btree

import (
	"encoding/binary"
	"fmt"

	"litequery/pkg/sqlerr"
)

// B-tree page types, the first byte of every page header.
const (
	typeInteriorIndex = 0x02
	typeInteriorTable = 0x05
	typeLeafIndex     = 0x0a
	typeLeafTable     = 0x0d
)

// btPage is a validated view over one B-tree page image.
type btPage struct {
	pageNo    uint32
	data      []byte
	usable    int
	typ       byte
	headerOff int
	cellCount int
	rightMost uint32 // interior pages only
}

// parsePage validates the page header and cell pointer array bounds of page
// pageNo. Page 1 keeps its 100-byte file header prefix, so its B-tree header
// starts at offset 100 and all cell pointers stay page-relative.
func parsePage(pageNo uint32, data []byte, usable int) (*btPage, error) {
	headerOff := 0
	if pageNo == 1 {
		headerOff = 100
	}

	if len(data) < headerOff+8 {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "page too small for a B-tree header").
			WithDetail(fmt.Sprintf("page %d", pageNo))
	}

	p := &btPage{
		pageNo:    pageNo,
		data:      data,
		usable:    usable,
		typ:       data[headerOff],
		headerOff: headerOff,
	}

	switch p.typ {
	case typeInteriorIndex, typeInteriorTable, typeLeafIndex, typeLeafTable:
	default:
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "invalid B-tree page type").
			WithDetail(fmt.Sprintf("page %d, type byte %#02x", pageNo, p.typ))
	}

	if !p.leaf() && len(data) < headerOff+12 {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "page too small for an interior header").
			WithDetail(fmt.Sprintf("page %d", pageNo))
	}

	p.cellCount = int(binary.BigEndian.Uint16(data[headerOff+3:]))
	if !p.leaf() {
		p.rightMost = binary.BigEndian.Uint32(data[headerOff+8:])
	}

	if p.ptrArrayEnd() > usable {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "cell pointer array exceeds page").
			WithDetail(fmt.Sprintf("page %d, %d cells", pageNo, p.cellCount))
	}

	return p, nil
}

func (p *btPage) leaf() bool {
	return p.typ == typeLeafIndex || p.typ == typeLeafTable
}

func (p *btPage) table() bool {
	return p.typ == typeInteriorTable || p.typ == typeLeafTable
}

func (p *btPage) headerLen() int {
	if p.leaf() {
		return 8
	}
	return 12
}

func (p *btPage) ptrArrayEnd() int {
	return p.headerOff + p.headerLen() + 2*p.cellCount
}

// cellPointer returns the page-relative offset of cell i, validated to point
// inside the usable region and past the pointer array.
func (p *btPage) cellPointer(i int) (int, error) {
	base := p.headerOff + p.headerLen() + 2*i
	ptr := int(binary.BigEndian.Uint16(p.data[base:]))
	if ptr < p.ptrArrayEnd() || ptr >= p.usable {
		return 0, sqlerr.New(sqlerr.CodeCorruptBTree, "cell pointer outside page").
			WithDetail(fmt.Sprintf("page %d, cell %d at offset %d", p.pageNo, i, ptr))
	}
	return ptr, nil
}
