package query

import (
	"errors"
	"fmt"

	"litequery/pkg/catalog"
	"litequery/pkg/storage/btree"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

// ErrUnresolvedRowid reports an index entry whose rowid has no row in the
// table tree. The planner reacts by abandoning the seek path and scanning
// the table instead; it is not treated as corruption.
var ErrUnresolvedRowid = errors.New("index entry names a rowid that is not in the table")

// IndexSeek probes a single-column index for one key and resolves each hit
// back to its table row. Hits come out in ascending rowid order within the
// key, the order the index stores them.
type IndexSeek struct {
	base    *BaseIterator
	src     *page.Source
	table   *catalog.SchemaObject
	index   *catalog.SchemaObject
	key     types.Value
	matches []btree.IndexMatch
	pos     int
}

// NewIndexSeek creates a seek of index for key, resolving hits against
// table. The operator is closed until Open is called.
func NewIndexSeek(src *page.Source, table, index *catalog.SchemaObject, key types.Value) (*IndexSeek, error) {
	if table == nil || index == nil {
		return nil, fmt.Errorf("table and index cannot be nil")
	}
	if key == nil {
		key = types.Null
	}
	is := &IndexSeek{src: src, table: table, index: index, key: key}
	is.base = NewBaseIterator(is.readNext)
	return is, nil
}

// Open probes the index. All matching (key, rowid) pairs are gathered here;
// table rows are resolved lazily as the seek is drained.
func (is *IndexSeek) Open() error {
	if err := ensureTableTree(is.src, is.table); err != nil {
		return err
	}
	matches, err := btree.SeekIndex(is.src, is.index.RootPage, is.key)
	if err != nil {
		return err
	}
	is.matches = matches
	is.pos = 0
	is.base.MarkOpened()
	return nil
}

func (is *IndexSeek) readNext() (*Row, error) {
	if is.pos >= len(is.matches) {
		return nil, nil
	}
	m := is.matches[is.pos]
	is.pos++

	entry, err := btree.Seek(is.src, is.table.RootPage, m.Rowid)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("index %s, rowid %d: %w", is.index.Name, m.Rowid, ErrUnresolvedRowid)
	}
	return rowFromEntry(is.table, entry), nil
}

// HasNext reports whether more matches remain.
func (is *IndexSeek) HasNext() (bool, error) { return is.base.HasNext() }

// Next resolves and returns the next matching row.
func (is *IndexSeek) Next() (*Row, error) { return is.base.Next() }

// Rewind replays the gathered matches from the first one. The index is not
// probed again.
func (is *IndexSeek) Rewind() error {
	is.pos = 0
	is.base.ClearCache()
	return nil
}

// Close drops the gathered matches. The seek can be reopened afterwards.
func (is *IndexSeek) Close() error {
	is.matches = nil
	is.pos = 0
	return is.base.Close()
}

// Columns returns the table's declared column names.
func (is *IndexSeek) Columns() []string {
	return is.table.Columns
}
