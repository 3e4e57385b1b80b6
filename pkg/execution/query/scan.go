package query

import (
	"fmt"

	"litequery/pkg/catalog"
	"litequery/pkg/storage/btree"
	"litequery/pkg/storage/page"
)

// SeqScan walks a table's tree in rowid order and yields every row shaped to
// the declared columns. It is the fallback access path for every query and
// the only one for queries without a usable index.
type SeqScan struct {
	base   *BaseIterator
	src    *page.Source
	table  *catalog.SchemaObject
	cursor *btree.Cursor
}

// NewSeqScan creates a sequential scan over the table's tree. The scan is
// closed until Open is called.
func NewSeqScan(src *page.Source, table *catalog.SchemaObject) (*SeqScan, error) {
	if table == nil {
		return nil, fmt.Errorf("table cannot be nil")
	}
	ss := &SeqScan{src: src, table: table}
	ss.base = NewBaseIterator(ss.readNext)
	return ss, nil
}

// Open positions a cursor at the start of the table's tree.
func (ss *SeqScan) Open() error {
	cur, err := btree.NewCursor(ss.src, ss.table.RootPage)
	if err != nil {
		return err
	}
	if !cur.IsTableTree() {
		return errWithoutRowid(ss.table)
	}
	ss.cursor = cur
	ss.base.MarkOpened()
	return nil
}

func (ss *SeqScan) readNext() (*Row, error) {
	entry, err := ss.cursor.Next()
	if err != nil || entry == nil {
		return nil, err
	}
	return rowFromEntry(ss.table, entry), nil
}

// HasNext reports whether the scan has more rows.
func (ss *SeqScan) HasNext() (bool, error) { return ss.base.HasNext() }

// Next returns the next row in rowid order.
func (ss *SeqScan) Next() (*Row, error) { return ss.base.Next() }

// Rewind restarts the scan at the first row.
func (ss *SeqScan) Rewind() error {
	if err := ss.cursor.Rewind(); err != nil {
		return err
	}
	ss.base.ClearCache()
	return nil
}

// Close releases the cursor. The scan can be reopened afterwards.
func (ss *SeqScan) Close() error {
	ss.cursor = nil
	return ss.base.Close()
}

// Columns returns the table's declared column names.
func (ss *SeqScan) Columns() []string {
	return ss.table.Columns
}
