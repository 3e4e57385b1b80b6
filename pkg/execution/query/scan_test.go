package query

import (
	"os"
	"path/filepath"
	"testing"

	"litequery/internal/dbgen"
	"litequery/pkg/catalog"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

func openFixture(t *testing.T, b *dbgen.Builder) *page.Source {
	t.Helper()
	data, err := b.Build()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.db")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	src, err := page.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

// fruitBuilder declares the shared fixture: a rowid-alias table with a text
// index, rowids deliberately non-contiguous and one key duplicated.
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

func fruitFixture(t *testing.T) (*page.Source, *catalog.Catalog) {
	t.Helper()
	src := openFixture(t, fruitBuilder())
	cat, err := catalog.Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return src, cat
}

func tableObject(t *testing.T, cat *catalog.Catalog, name string) *catalog.SchemaObject {
	t.Helper()
	obj, err := cat.Table(name)
	if err != nil {
		t.Fatalf("Table(%s): %v", name, err)
	}
	return obj
}

func indexObject(t *testing.T, cat *catalog.Catalog, name string) *catalog.SchemaObject {
	t.Helper()
	obj, err := cat.Index(name)
	if err != nil {
		t.Fatalf("Index(%s): %v", name, err)
	}
	return obj
}

func collectRows(t *testing.T, it RowIterator) []*Row {
	t.Helper()
	if err := it.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer it.Close()
	rows, err := Collect(it)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rows
}

func intAt(t *testing.T, row *Row, i int) int64 {
	t.Helper()
	v, ok := row.Values[i].(*types.IntegerValue)
	if !ok {
		t.Fatalf("column %d is %s, want INTEGER", i, row.Values[i].Kind())
	}
	return v.Value
}

func textAt(t *testing.T, row *Row, i int) string {
	t.Helper()
	v, ok := row.Values[i].(*types.TextValue)
	if !ok {
		t.Fatalf("column %d is %s, want TEXT", i, row.Values[i].Kind())
	}
	return v.Value
}

func TestSeqScanYieldsRowsInOrder(t *testing.T) {
	src, cat := fruitFixture(t)
	table := tableObject(t, cat, "fruit")

	ss, err := NewSeqScan(src, table)
	if err != nil {
		t.Fatalf("NewSeqScan: %v", err)
	}
	rows := collectRows(t, ss)

	wantIDs := []int64{1, 2, 4, 7}
	wantNames := []string{"apple", "banana", "cherry", "apple"}
	if len(rows) != len(wantIDs) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantIDs))
	}
	for i, row := range rows {
		if row.Rowid != wantIDs[i] {
			t.Errorf("row %d: rowid = %d, want %d", i, row.Rowid, wantIDs[i])
		}
		if got := intAt(t, row, 0); got != wantIDs[i] {
			t.Errorf("row %d: id column = %d, want alias value %d", i, got, wantIDs[i])
		}
		if got := textAt(t, row, 1); got != wantNames[i] {
			t.Errorf("row %d: name = %q, want %q", i, got, wantNames[i])
		}
	}
}

func TestSeqScanColumns(t *testing.T) {
	src, cat := fruitFixture(t)
	table := tableObject(t, cat, "fruit")

	ss, err := NewSeqScan(src, table)
	if err != nil {
		t.Fatalf("NewSeqScan: %v", err)
	}
	cols := ss.Columns()
	want := []string{"id", "name", "weight"}
	if len(cols) != len(want) {
		t.Fatalf("Columns = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, cols[i], want[i])
		}
	}
}

func TestSeqScanPadsShortRows(t *testing.T) {
	b := dbgen.New(512)
	tbl := b.Table("notes", "CREATE TABLE notes (body text, priority integer, tag text)")
	// A row written before the trailing columns existed.
	tbl.Row(1, "first")
	tbl.Row(2, "second", int64(3), "urgent")
	src := openFixture(t, b)
	cat, err := catalog.Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ss, err := NewSeqScan(src, tableObject(t, cat, "notes"))
	if err != nil {
		t.Fatalf("NewSeqScan: %v", err)
	}
	rows := collectRows(t, ss)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	short := rows[0]
	if len(short.Values) != 3 {
		t.Fatalf("short row has %d values, want 3", len(short.Values))
	}
	if short.Values[1].Kind() != types.KindNull || short.Values[2].Kind() != types.KindNull {
		t.Errorf("missing columns = %s/%s, want NULL/NULL",
			short.Values[1].Kind(), short.Values[2].Kind())
	}
}

func TestSeqScanRewind(t *testing.T) {
	src, cat := fruitFixture(t)
	ss, err := NewSeqScan(src, tableObject(t, cat, "fruit"))
	if err != nil {
		t.Fatalf("NewSeqScan: %v", err)
	}
	if err := ss.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ss.Close()

	first, err := Collect(ss)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if err := ss.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	second, err := Collect(ss)
	if err != nil {
		t.Fatalf("Collect after Rewind: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("rewound scan yielded %d rows, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Rowid != second[i].Rowid {
			t.Errorf("row %d: rowid %d != %d after rewind", i, first[i].Rowid, second[i].Rowid)
		}
	}
}

func TestSeqScanRejectsIndexRoot(t *testing.T) {
	b := fruitBuilder()
	src := openFixture(t, b)

	fake := &catalog.SchemaObject{
		Kind:       catalog.ObjectTable,
		Name:       "fake",
		RootPage:   b.Root("idx_fruit_name"),
		Columns:    []string{"name", "id"},
		RowidAlias: -1,
	}
	ss, err := NewSeqScan(src, fake)
	if err != nil {
		t.Fatalf("NewSeqScan: %v", err)
	}
	err = ss.Open()
	if !sqlerr.HasCode(err, sqlerr.CodeUnsupportedQuery) {
		t.Fatalf("Open on index root = %v, want UNSUPPORTED_QUERY", err)
	}
}

func TestSeqScanRequiresOpen(t *testing.T) {
	src, cat := fruitFixture(t)
	ss, err := NewSeqScan(src, tableObject(t, cat, "fruit"))
	if err != nil {
		t.Fatalf("NewSeqScan: %v", err)
	}
	if _, err := ss.HasNext(); err == nil {
		t.Error("HasNext before Open did not fail")
	}
	if _, err := ss.Next(); err == nil {
		t.Error("Next before Open did not fail")
	}
}

func TestNewSeqScanNilTable(t *testing.T) {
	src, _ := fruitFixture(t)
	if _, err := NewSeqScan(src, nil); err == nil {
		t.Error("NewSeqScan(nil table) did not fail")
	}
}
