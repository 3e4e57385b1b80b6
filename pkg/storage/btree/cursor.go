package btree

import (
	"fmt"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
	"litequery/pkg/storage/record"
)

// maxDepth bounds the descent stack. A healthy tree is far shallower even at
// the maximum database size; anything deeper means the file loops.
const maxDepth = 64

// Entry is one tree entry. Table trees fill both fields. Index trees carry
// the key columns and the trailing rowid inside Record and leave Rowid zero.
type Entry struct {
	Rowid  int64
	Record *record.Record
}

// frame is one level of the in-order walk: a page and the next step on it.
// Leaves step through cells. Table interiors step through children, with the
// right pointer as the final step. Index interiors alternate child and cell,
// because interior index cells hold entries that appear nowhere else.
type frame struct {
	page *btPage
	step int
}

// Cursor walks a B-tree in key order, loading pages only as the walk
// reaches them.
type Cursor struct {
	src   *page.Source
	root  uint32
	table bool
	stack []frame
}

// NewCursor positions a cursor before the first entry of the tree rooted at
// root.
func NewCursor(src *page.Source, root uint32) (*Cursor, error) {
	c := &Cursor{src: src, root: root}
	if err := c.Rewind(); err != nil {
		return nil, err
	}
	return c, nil
}

// IsTableTree reports which kind of tree the cursor walks. Table trees yield
// entries with rowids; index trees yield bare records.
func (c *Cursor) IsTableTree() bool {
	return c.table
}

// Rewind repositions the cursor before the first entry. Only the root page
// number is retained, so a rewound cursor re-walks the tree from scratch.
func (c *Cursor) Rewind() error {
	p, err := loadPage(c.src, c.root)
	if err != nil {
		return err
	}
	c.table = p.table()
	c.stack = append(c.stack[:0], frame{page: p})
	return nil
}

// Next returns the next entry in key order, or nil once the tree is
// exhausted.
func (c *Cursor) Next() (*Entry, error) {
	for len(c.stack) > 0 {
		f := &c.stack[len(c.stack)-1]
		p := f.page

		switch p.typ {
		case typeLeafTable, typeLeafIndex:
			if f.step >= p.cellCount {
				c.pop()
				continue
			}
			i := f.step
			f.step++
			if p.table() {
				return tableEntryAt(c.src, p, i)
			}
			return indexEntryAt(c.src, p, i)

		case typeInteriorTable:
			if f.step > p.cellCount {
				c.pop()
				continue
			}
			step := f.step
			f.step++
			child := p.rightMost
			if step < p.cellCount {
				off, err := p.cellPointer(step)
				if err != nil {
					return nil, err
				}
				child, _, err = p.tableInteriorCell(off)
				if err != nil {
					return nil, err
				}
			}
			if err := c.push(child); err != nil {
				return nil, err
			}

		default: // typeInteriorIndex
			if f.step > 2*p.cellCount {
				c.pop()
				continue
			}
			step := f.step
			f.step++
			if step == 2*p.cellCount {
				if err := c.push(p.rightMost); err != nil {
					return nil, err
				}
				continue
			}
			i := step / 2
			if step%2 == 0 {
				off, err := p.cellPointer(i)
				if err != nil {
					return nil, err
				}
				child, _, err := p.indexCell(off)
				if err != nil {
					return nil, err
				}
				if err := c.push(child); err != nil {
					return nil, err
				}
				continue
			}
			return indexEntryAt(c.src, p, i)
		}
	}
	return nil, nil
}

func (c *Cursor) push(n uint32) error {
	if len(c.stack) >= maxDepth {
		return sqlerr.New(sqlerr.CodeCorruptBTree, "tree deeper than the format allows").
			WithDetail(fmt.Sprintf("%d levels", len(c.stack)))
	}
	p, err := childPage(c.src, n)
	if err != nil {
		return err
	}
	if p.table() != c.table {
		return sqlerr.New(sqlerr.CodeCorruptBTree, "page type changes mid-tree").
			WithDetail(fmt.Sprintf("page %d", n))
	}
	c.stack = append(c.stack, frame{page: p})
	return nil
}

func (c *Cursor) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// loadPage reads and validates a page. Used for roots, where the page number
// comes from the schema and an out-of-range value is the caller's problem.
func loadPage(src *page.Source, n uint32) (*btPage, error) {
	data, err := src.Page(n)
	if err != nil {
		return nil, err
	}
	return parsePage(n, data, int(src.UsableSize()))
}

// childPage reads and validates a page reached through a child pointer,
// where an out-of-range number means the tree itself is damaged.
func childPage(src *page.Source, n uint32) (*btPage, error) {
	if n < 1 || n > src.PageCount() {
		return nil, sqlerr.New(sqlerr.CodeCorruptBTree, "child page out of range").
			WithDetail(fmt.Sprintf("page %d of %d", n, src.PageCount()))
	}
	return loadPage(src, n)
}

func tableEntryAt(src *page.Source, p *btPage, i int) (*Entry, error) {
	off, err := p.cellPointer(i)
	if err != nil {
		return nil, err
	}
	rowid, pay, err := p.tableLeafCell(off)
	if err != nil {
		return nil, err
	}
	rec, err := decodePayload(src, pay)
	if err != nil {
		return nil, err
	}
	return &Entry{Rowid: rowid, Record: rec}, nil
}

func indexEntryAt(src *page.Source, p *btPage, i int) (*Entry, error) {
	off, err := p.cellPointer(i)
	if err != nil {
		return nil, err
	}
	_, pay, err := p.indexCell(off)
	if err != nil {
		return nil, err
	}
	rec, err := decodePayload(src, pay)
	if err != nil {
		return nil, err
	}
	return &Entry{Record: rec}, nil
}

// decodePayload assembles a cell's payload across its overflow chain and
// decodes the record.
func decodePayload(src *page.Source, pay cellPayload) (*record.Record, error) {
	payload, err := record.AssemblePayload(pay.local, pay.total, pay.overflow,
		src.Page, src.PageCount(), int(src.UsableSize()))
	if err != nil {
		return nil, err
	}
	return record.Decode(payload, src.Encoding())
}
