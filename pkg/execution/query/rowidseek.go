package query

import (
	"fmt"

	"litequery/pkg/catalog"
	"litequery/pkg/storage/btree"
	"litequery/pkg/storage/page"
)

// RowidSeek fetches at most one row of a table by its rowid. The planner
// uses it when the predicate column is the table's rowid alias, where the
// tree key is the predicate value and no index is needed.
type RowidSeek struct {
	base  *BaseIterator
	src   *page.Source
	table *catalog.SchemaObject
	rowid int64
	done  bool
}

// NewRowidSeek creates a seek of table for rowid. The operator is closed
// until Open is called.
func NewRowidSeek(src *page.Source, table *catalog.SchemaObject, rowid int64) (*RowidSeek, error) {
	if table == nil {
		return nil, fmt.Errorf("table cannot be nil")
	}
	rs := &RowidSeek{src: src, table: table, rowid: rowid}
	rs.base = NewBaseIterator(rs.readNext)
	return rs, nil
}

// Open verifies the target is a rowid table. The tree is probed lazily on
// the first Next.
func (rs *RowidSeek) Open() error {
	if err := ensureTableTree(rs.src, rs.table); err != nil {
		return err
	}
	rs.done = false
	rs.base.MarkOpened()
	return nil
}

func (rs *RowidSeek) readNext() (*Row, error) {
	if rs.done {
		return nil, nil
	}
	rs.done = true

	entry, err := btree.Seek(rs.src, rs.table.RootPage, rs.rowid)
	if err != nil || entry == nil {
		return nil, err
	}
	return rowFromEntry(rs.table, entry), nil
}

// HasNext reports whether the row is still pending.
func (rs *RowidSeek) HasNext() (bool, error) { return rs.base.HasNext() }

// Next returns the sought row, if the table has it.
func (rs *RowidSeek) Next() (*Row, error) { return rs.base.Next() }

// Rewind restarts the seek, so the next row probes the tree again.
func (rs *RowidSeek) Rewind() error {
	rs.done = false
	rs.base.ClearCache()
	return nil
}

// Close resets the seek. It can be reopened afterwards.
func (rs *RowidSeek) Close() error {
	rs.done = false
	return rs.base.Close()
}

// Columns returns the table's declared column names.
func (rs *RowidSeek) Columns() []string {
	return rs.table.Columns
}
