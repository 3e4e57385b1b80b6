package record

import (
	"encoding/binary"
	"fmt"

	"litequery/pkg/sqlerr"
)

// FetchPage returns the full image of a page by 1-based page number.
// It decouples payload assembly from the page source.
type FetchPage func(n uint32) ([]byte, error)

// AssemblePayload reconstructs a cell's full payload from its local part and
// the overflow chain starting at first (0 when nothing overflowed). total is
// the payload length the cell declared, pageCount bounds chain pointers, and
// usable is the usable page size; each overflow page is a 4-byte next
// pointer followed by payload bytes.
//
// The chain is walked until total bytes are gathered. A pointer outside the
// database, a chain longer than the database has pages, or a chain that ends
// short all mean the file is corrupt.
func AssemblePayload(local []byte, total int64, first uint32, fetch FetchPage, pageCount uint32, usable int) ([]byte, error) {
	if int64(len(local)) == total && first == 0 {
		return local, nil
	}
	if int64(len(local)) > total {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "local payload exceeds declared length").
			WithDetail(fmt.Sprintf("local %d, declared %d", len(local), total))
	}
	if total > int64(pageCount)*int64(usable) {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "declared payload larger than database").
			WithDetail(fmt.Sprintf("%d bytes", total))
	}

	out := make([]byte, 0, total)
	out = append(out, local...)

	next := first
	hops := uint32(0)
	for next != 0 && int64(len(out)) < total {
		hops++
		if hops > pageCount {
			return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "overflow chain longer than database").
				WithDetail(fmt.Sprintf("%d hops", hops))
		}
		if next < 1 || next > pageCount {
			return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "overflow page out of range").
				WithDetail(fmt.Sprintf("page %d of %d", next, pageCount))
		}

		pg, err := fetch(next)
		if err != nil {
			return nil, err
		}
		if len(pg) < 4 || usable > len(pg) {
			return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "overflow page smaller than usable size").
				WithDetail(fmt.Sprintf("page %d", next))
		}

		take := int64(usable - 4)
		if remaining := total - int64(len(out)); take > remaining {
			take = remaining
		}
		out = append(out, pg[4:4+take]...)
		next = binary.BigEndian.Uint32(pg[0:4])
	}

	if int64(len(out)) != total {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "overflow chain ended before declared length").
			WithDetail(fmt.Sprintf("have %d of %d bytes", len(out), total))
	}
	return out, nil
}
