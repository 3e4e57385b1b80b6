package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"litequery/internal/dbgen"
	"litequery/pkg/sqlerr"
)

func TestSelectStar(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT * FROM fruit")
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "weight"}, res.Columns)
	require.Equal(t, [][]string{
		{"1", "apple", "0.3"},
		{"2", "banana", "0.25"},
		{"4", "cherry", "0.01"},
		{"7", "apple", "0.35"},
	}, rendered(res))
}

func TestSelectProjectionKeepsDeclaredCase(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT NAME, ID FROM FRUIT")
	require.NoError(t, err)
	require.Equal(t, []string{"name", "id"}, res.Columns)
	require.Equal(t, []string{"apple", "1"}, rendered(res)[0])
}

func TestSelectWhereRowidAlias(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT name FROM fruit WHERE id = 4")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"cherry"}}, rendered(res))

	// An integral float literal pins the same rowid.
	res, err = runQuery(t, src, cat, "SELECT name FROM fruit WHERE id = 4.0")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"cherry"}}, rendered(res))

	// A fractional literal cannot equal any stored integer.
	res, err = runQuery(t, src, cat, "SELECT name FROM fruit WHERE id = 4.5")
	require.NoError(t, err)
	require.Empty(t, res.Rows)
}

func TestSelectWhereIndexedColumn(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT id, name FROM fruit WHERE name = 'apple'")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"1", "apple"},
		{"7", "apple"},
	}, rendered(res))
}

func TestSelectWhereUnindexedColumn(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT name FROM fruit WHERE weight = 0.25")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"banana"}}, rendered(res))
}

func TestSelectWhereNullLiteralMatchesNothing(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT name FROM fruit WHERE name = NULL")
	require.NoError(t, err)
	require.Empty(t, res.Rows)
}

func TestSelectCountFastPath(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT COUNT(*) FROM fruit")
	require.NoError(t, err)
	require.Equal(t, []string{"count(*)"}, res.Columns)
	require.Equal(t, [][]string{{"4"}}, rendered(res))
}

func TestSelectCountFastPathMultiLevel(t *testing.T) {
	b := dbgen.New(512)
	tbl := b.Table("bulk", "CREATE TABLE bulk (id integer primary key, payload text)")
	for i := 1; i <= 300; i++ {
		tbl.Row(int64(i), nil, "row payload with enough bytes to force splits")
	}
	src, cat := openFixture(t, b)

	res, err := runQuery(t, src, cat, "SELECT COUNT(*) FROM bulk")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"300"}}, rendered(res))

	// The fast path must agree with a counted scan.
	res, err = runQuery(t, src, cat, "SELECT COUNT(*) FROM bulk WHERE payload = 'row payload with enough bytes to force splits'")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"300"}}, rendered(res))
}

func TestSelectCountWithWhere(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT COUNT(*) FROM fruit WHERE name = 'apple'")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"2"}}, rendered(res))
}

func TestSelectCountEmptyTable(t *testing.T) {
	b := fruitBuilder()
	b.Table("void", "CREATE TABLE void (a text, b integer)")
	src, cat := openFixture(t, b)

	res, err := runQuery(t, src, cat, "SELECT COUNT(*) FROM void")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"0"}}, rendered(res))
}

func TestSelectUnknownTable(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	_, err := runQuery(t, src, cat, "SELECT * FROM vegetables")
	require.True(t, sqlerr.HasCode(err, sqlerr.CodeUnknownTable),
		"unknown table = %v, want UNKNOWN_TABLE", err)
}

func TestSelectUnknownColumn(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	_, err := runQuery(t, src, cat, "SELECT color FROM fruit")
	require.True(t, sqlerr.HasCode(err, sqlerr.CodeColumnNotFound),
		"unknown projection column = %v, want COLUMN_NOT_FOUND", err)

	_, err = runQuery(t, src, cat, "SELECT name FROM fruit WHERE color = 'red'")
	require.True(t, sqlerr.HasCode(err, sqlerr.CodeColumnNotFound),
		"unknown predicate column = %v, want COLUMN_NOT_FOUND", err)
}

func TestSelectSchemaTable(t *testing.T) {
	src, cat := openFixture(t, fruitBuilder())

	res, err := runQuery(t, src, cat, "SELECT name FROM sqlite_master WHERE type = 'table'")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"fruit"}}, rendered(res))

	res, err = runQuery(t, src, cat, "SELECT COUNT(*) FROM sqlite_schema")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"2"}}, rendered(res))
}

func TestSelectVirtualTableRejected(t *testing.T) {
	b := fruitBuilder()
	b.Object("table", "vt", "vt", 0, "CREATE VIRTUAL TABLE vt USING fts5(content)")
	src, cat := openFixture(t, b)

	_, err := runQuery(t, src, cat, "SELECT * FROM vt")
	require.True(t, sqlerr.HasCode(err, sqlerr.CodeUnsupportedQuery),
		"virtual table = %v, want UNSUPPORTED_QUERY", err)
}

func TestSelectFallsBackOnDanglingIndexEntry(t *testing.T) {
	b := dbgen.New(512)
	full := b.Table("donor", "CREATE TABLE donor (id integer primary key, name text)")
	full.Row(1, nil, "apple").Row(7, nil, "apple")
	sparse := b.Table("sparse", "CREATE TABLE sparse (id integer primary key, name text)")
	sparse.Row(1, nil, "apple")
	// The index's schema row claims sparse while its entries come from donor,
	// so rowid 7 dangles.
	b.IndexDeclared("idx_sparse_name", "donor", "sparse", "CREATE INDEX idx_sparse_name ON sparse (name)", 1)
	src, cat := openFixture(t, b)

	res, err := runQuery(t, src, cat, "SELECT id, name FROM sparse WHERE name = 'apple'")
	require.NoError(t, err, "dangling index entry must fall back to a scan")
	require.Equal(t, [][]string{{"1", "apple"}}, rendered(res))
}
