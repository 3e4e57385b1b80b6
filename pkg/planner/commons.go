package planner

import (
	"math"

	"litequery/pkg/catalog"
	"litequery/pkg/execution/query"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/btree"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

// resolveTable looks the table up and rejects objects no query can run
// against: views and virtual tables have no tree, and tables declared
// without a column list have no shape to project.
func resolveTable(cat *catalog.Catalog, name string) (*catalog.SchemaObject, error) {
	table, err := cat.Table(name)
	if err != nil {
		return nil, err
	}
	if table.RootPage == 0 {
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery, "table %s has no storage tree", table.Name)
	}
	if len(table.Columns) == 0 {
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery, "table %s declares no queryable columns", table.Name)
	}
	return table, nil
}

func errNoSuchColumn(table *catalog.SchemaObject, column string) error {
	return sqlerr.Newf(sqlerr.CodeColumnNotFound, "no such column: %s", column).
		WithDetail("table " + table.Name)
}

// rowidLiteral reports whether the predicate value pins an exact rowid: an
// integer literal, or a float literal with an integral in-range value.
func rowidLiteral(v types.Value) (int64, bool) {
	switch val := v.(type) {
	case *types.IntegerValue:
		return val.Value, true
	case *types.FloatValue:
		f := val.Value
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// fastCount answers COUNT(*) from the tree's cell counts.
func fastCount(src *page.Source, table *catalog.SchemaObject) (*Result, error) {
	cur, err := btree.NewCursor(src, table.RootPage)
	if err != nil {
		return nil, err
	}
	if !cur.IsTableTree() {
		return nil, sqlerr.New(sqlerr.CodeUnsupportedQuery, "WITHOUT ROWID tables are not supported").
			WithDetail("table " + table.Name)
	}
	n, err := btree.CountRows(src, table.RootPage)
	if err != nil {
		return nil, err
	}
	return &Result{
		Columns: []string{query.CountColumn},
		Rows:    [][]types.Value{{types.NewInteger(n)}},
	}, nil
}

// collectResult drains an operator pipeline into a materialized Result.
func collectResult(it query.RowIterator) (*Result, error) {
	if err := it.Open(); err != nil {
		return nil, err
	}
	defer it.Close()

	rows, err := query.Collect(it)
	if err != nil {
		return nil, err
	}
	out := make([][]types.Value, len(rows))
	for i, row := range rows {
		out[i] = row.Values
	}
	return &Result{Columns: it.Columns(), Rows: out}, nil
}
