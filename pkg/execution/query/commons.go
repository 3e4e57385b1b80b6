package query

import (
	"litequery/pkg/catalog"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/btree"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

// fetchNext pulls one row from a child operator, translating exhaustion into
// a nil row so readNext implementations stay flat.
func fetchNext(it RowIterator) (*Row, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, nil
	}
	return it.Next()
}

// ensureTableTree rejects table objects whose root is an index tree. That
// shape means the table was declared WITHOUT ROWID, and its cells carry the
// primary key in index form rather than rowids.
func ensureTableTree(src *page.Source, table *catalog.SchemaObject) error {
	cur, err := btree.NewCursor(src, table.RootPage)
	if err != nil {
		return err
	}
	if !cur.IsTableTree() {
		return errWithoutRowid(table)
	}
	return nil
}

func errWithoutRowid(table *catalog.SchemaObject) error {
	return sqlerr.New(sqlerr.CodeUnsupportedQuery, "WITHOUT ROWID tables are not supported").WithDetail("table " + table.Name)
}

// rowFromEntry shapes a decoded cell into the table's declared columns. The
// rowid-alias column stores NULL in the record and the real value rides the
// cell's rowid, substituted here. Rows written before trailing columns were
// added to the table can be short; the missing columns read as NULL.
func rowFromEntry(table *catalog.SchemaObject, e *btree.Entry) *Row {
	values := e.Record.Values
	if n := len(table.Columns); len(values) < n {
		padded := make([]types.Value, n)
		copy(padded, values)
		for i := len(values); i < n; i++ {
			padded[i] = types.Null
		}
		values = padded
	}
	if a := table.RowidAlias; a >= 0 && a < len(values) && values[a].Kind() == types.KindNull {
		values[a] = types.NewInteger(e.Rowid)
	}
	return &Row{Rowid: e.Rowid, Values: values}
}
