package btree

import (
	"encoding/binary"
	"fmt"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/record"
)

// cellPayload is a cell's payload before overflow assembly: the declared
// total length, the bytes stored on the page, and the first overflow page
// (0 when everything is local).
type cellPayload struct {
	total    int64
	local    []byte
	overflow uint32
}

// Local payload bounds. Table leaves may fill almost the whole page; index
// pages cap entries lower so a page always holds several keys.
func tableLocals(usable int) (maxLocal, minLocal int) {
	return usable - 35, (usable-12)*32/255 - 23
}

func indexLocals(usable int) (maxLocal, minLocal int) {
	return (usable-12)*64/255 - 23, (usable-12)*32/255 - 23
}

// localPayload returns how many payload bytes stay on the page for a cell
// with the given declared length.
func localPayload(total int64, maxLocal, minLocal, usable int) int {
	if total <= int64(maxLocal) {
		return int(total)
	}
	k := minLocal + int((total-int64(minLocal))%int64(usable-4))
	if k <= maxLocal {
		return k
	}
	return minLocal
}

// tableLeafCell parses the cell at offset: payload length varint, rowid
// varint, local payload, and a trailing overflow page number when the
// payload spilled.
func (p *btPage) tableLeafCell(offset int) (int64, cellPayload, error) {
	buf := p.data[offset:p.usable]

	total, n, err := record.Varint(buf)
	if err != nil {
		return 0, cellPayload{}, err
	}
	rowid, m, err := record.Varint(buf[n:])
	if err != nil {
		return 0, cellPayload{}, err
	}

	maxLocal, minLocal := tableLocals(p.usable)
	pay, err := p.slicePayload(buf[n+m:], int64(total), maxLocal, minLocal, offset)
	if err != nil {
		return 0, cellPayload{}, err
	}
	return int64(rowid), pay, nil
}

// tableInteriorCell parses the cell at offset: a child page number and the
// largest rowid stored under that child.
func (p *btPage) tableInteriorCell(offset int) (uint32, int64, error) {
	buf := p.data[offset:p.usable]
	if len(buf) < 4 {
		return 0, 0, sqlerr.New(sqlerr.CodeCorruptBTree, "cell extends past end of page").
			WithDetail(fmt.Sprintf("page %d, offset %d", p.pageNo, offset))
	}
	child := binary.BigEndian.Uint32(buf)
	key, _, err := record.Varint(buf[4:])
	if err != nil {
		return 0, 0, err
	}
	return child, int64(key), nil
}

// indexCell parses the cell at offset on either index page type. On interior
// pages the cell starts with a child page number; child is 0 on leaves.
func (p *btPage) indexCell(offset int) (uint32, cellPayload, error) {
	buf := p.data[offset:p.usable]

	var child uint32
	if p.typ == typeInteriorIndex {
		if len(buf) < 4 {
			return 0, cellPayload{}, sqlerr.New(sqlerr.CodeCorruptBTree, "cell extends past end of page").
				WithDetail(fmt.Sprintf("page %d, offset %d", p.pageNo, offset))
		}
		child = binary.BigEndian.Uint32(buf)
		buf = buf[4:]
	}

	total, n, err := record.Varint(buf)
	if err != nil {
		return 0, cellPayload{}, err
	}

	maxLocal, minLocal := indexLocals(p.usable)
	pay, err := p.slicePayload(buf[n:], int64(total), maxLocal, minLocal, offset)
	if err != nil {
		return 0, cellPayload{}, err
	}
	return child, pay, nil
}

// slicePayload carves the local payload bytes (and the overflow pointer that
// follows them, if any) out of the remainder of a cell.
func (p *btPage) slicePayload(buf []byte, total int64, maxLocal, minLocal, offset int) (cellPayload, error) {
	if total < 0 {
		return cellPayload{}, sqlerr.New(sqlerr.CodeCorruptBTree, "negative payload length").
			WithDetail(fmt.Sprintf("page %d, offset %d", p.pageNo, offset))
	}

	local := localPayload(total, maxLocal, minLocal, p.usable)
	need := local
	overflows := int64(local) < total
	if overflows {
		need += 4
	}
	if need > len(buf) {
		return cellPayload{}, sqlerr.New(sqlerr.CodeCorruptBTree, "cell extends past end of page").
			WithDetail(fmt.Sprintf("page %d, offset %d, needs %d bytes", p.pageNo, offset, need))
	}

	pay := cellPayload{total: total, local: buf[:local]}
	if overflows {
		pay.overflow = binary.BigEndian.Uint32(buf[local : local+4])
	}
	return pay, nil
}
