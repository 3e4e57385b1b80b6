package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"litequery/internal/dbgen"
	"litequery/pkg/catalog"
	"litequery/pkg/parser"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
)

func openFixture(t *testing.T, b *dbgen.Builder) (*page.Source, *catalog.Catalog) {
	t.Helper()
	data, err := b.Build()
	require.NoError(t, err, "fixture build")

	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	src, err := page.Open(path)
	require.NoError(t, err, "open fixture")
	t.Cleanup(func() { src.Close() })

	cat, err := catalog.Load(src)
	require.NoError(t, err, "load catalog")
	return src, cat
}

// fruitBuilder declares the shared fixture: a rowid-alias table with a text
// index, rowids non-contiguous and one key duplicated.
func fruitBuilder() *dbgen.Builder {
	b := dbgen.New(512)
	tbl := b.Table("fruit", "CREATE TABLE fruit (id integer primary key, name text, weight real)")
	tbl.Row(1, nil, "apple", 0.3).
		Row(2, nil, "banana", 0.25).
		Row(4, nil, "cherry", 0.01).
		Row(7, nil, "apple", 0.35)
	b.Index("idx_fruit_name", "fruit", "CREATE INDEX idx_fruit_name ON fruit (name)", 1)
	return b
}

func runQuery(t *testing.T, src *page.Source, cat *catalog.Catalog, sql string) (*Result, error) {
	t.Helper()
	stmt, err := parser.ParseStatement(sql)
	require.NoError(t, err, "parse %q", sql)

	plan, err := NewQueryPlanner(src, cat).Plan(stmt)
	if err != nil {
		return nil, err
	}
	return plan.Execute()
}

// rendered flattens a result into strings for comparison.
func rendered(r *Result) [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		out[i] = cells
	}
	return out
}

func TestPlanRejectsCommandStatements(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	stmt, err := parser.ParseStatement(".tables")
	require.NoError(t, err)

	_, err = NewQueryPlanner(src, cat).Plan(stmt)
	require.True(t, sqlerr.HasCode(err, sqlerr.CodeUnsupportedQuery),
		"planning a dot command = %v, want UNSUPPORTED_QUERY", err)
}
