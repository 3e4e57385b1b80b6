package btree

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"litequery/internal/dbgen"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
	"litequery/pkg/types"
)

func builtBytes(t *testing.T, b *dbgen.Builder) []byte {
	t.Helper()
	data, err := b.Build()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return data
}

func openRaw(t *testing.T, data []byte) *page.Source {
	t.Helper()
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

func openFixture(t *testing.T, b *dbgen.Builder) *page.Source {
	t.Helper()
	return openRaw(t, builtBytes(t, b))
}

func mustCursor(t *testing.T, src *page.Source, root uint32) *Cursor {
	t.Helper()
	c, err := NewCursor(src, root)
	if err != nil {
		t.Fatalf("NewCursor: %v", err)
	}
	return c
}

func drain(t *testing.T, c *Cursor) []*Entry {
	t.Helper()
	var out []*Entry
	for {
		e, err := c.Next()
		if err != nil {
			t.Fatalf("Next after %d entries: %v", len(out), err)
		}
		if e == nil {
			return out
		}
		out = append(out, e)
	}
}

func drainErr(c *Cursor) error {
	for {
		e, err := c.Next()
		if err != nil {
			return err
		}
		if e == nil {
			return nil
		}
	}
}

func textAt(t *testing.T, e *Entry, col int) string {
	t.Helper()
	v, ok := e.Record.Values[col].(*types.TextValue)
	if !ok {
		t.Fatalf("column %d = %T, want text", col, e.Record.Values[col])
	}
	return v.Value
}

func entryKeyRowid(t *testing.T, e *Entry) (types.Value, int64) {
	t.Helper()
	if e.Record.Len() < 2 {
		t.Fatalf("index record has %d columns", e.Record.Len())
	}
	rid, ok := e.Record.Values[e.Record.Len()-1].(*types.IntegerValue)
	if !ok {
		t.Fatalf("rowid column = %T, want integer", e.Record.Values[e.Record.Len()-1])
	}
	return e.Record.Values[0], rid.Value
}

// peopleFixture spreads n rows over enough 512-byte pages to force interior
// levels once n is in the hundreds.
func peopleFixture(t *testing.T, n int) *dbgen.Builder {
	t.Helper()
	b := dbgen.New(512)
	tb := b.Table("people", "CREATE TABLE people (name text, score integer)")
	for i := 1; i <= n; i++ {
		tb.Row(int64(i), fmt.Sprintf("name-%04d-%s", i, strings.Repeat("x", 24)), int64(i*3))
	}
	return b
}

// groupFixture indexes a text column with ten distinct values over 200 rows
// plus two rows whose key is NULL.
func groupFixture(t *testing.T) *dbgen.Builder {
	t.Helper()
	b := dbgen.New(512)
	tb := b.Table("events", "CREATE TABLE events (grp text, seq integer)")
	for i := 1; i <= 200; i++ {
		tb.Row(int64(i), fmt.Sprintf("group-%02d", i%10), int64(i))
	}
	tb.Row(201, nil, int64(201))
	tb.Row(202, nil, int64(202))
	b.Index("events_grp", "events", "CREATE INDEX events_grp ON events (grp)", 0)
	return b
}

func TestCursorScanSingleLeaf(t *testing.T) {
	b := dbgen.New(512)
	b.Table("t", "CREATE TABLE t (name text)").
		Row(7, "seven").
		Row(2, "two").
		Row(40, "forty")
	src := openFixture(t, b)

	c := mustCursor(t, src, b.Root("t"))
	entries := drain(t, c)

	wantRowids := []int64{2, 7, 40}
	wantNames := []string{"two", "seven", "forty"}
	if len(entries) != len(wantRowids) {
		t.Fatalf("got %d entries, want %d", len(entries), len(wantRowids))
	}
	for i, e := range entries {
		if e.Rowid != wantRowids[i] {
			t.Errorf("entry %d rowid = %d, want %d", i, e.Rowid, wantRowids[i])
		}
		if got := textAt(t, e, 0); got != wantNames[i] {
			t.Errorf("entry %d name = %q, want %q", i, got, wantNames[i])
		}
	}

	// Exhausted cursors stay exhausted.
	for i := 0; i < 3; i++ {
		e, err := c.Next()
		if err != nil || e != nil {
			t.Fatalf("Next after end = (%v, %v), want (nil, nil)", e, err)
		}
	}
}

func TestCursorScanMultiLevel(t *testing.T) {
	b := peopleFixture(t, 300)
	src := openFixture(t, b)
	root := b.Root("people")

	p, err := loadPage(src, root)
	if err != nil {
		t.Fatalf("loadPage(root): %v", err)
	}
	if p.leaf() {
		t.Fatal("fixture fits one page, no interior level to test")
	}

	entries := drain(t, mustCursor(t, src, root))
	if len(entries) != 300 {
		t.Fatalf("got %d entries, want 300", len(entries))
	}
	for i, e := range entries {
		if e.Rowid != int64(i+1) {
			t.Fatalf("entry %d rowid = %d, want %d", i, e.Rowid, i+1)
		}
	}
	if got := textAt(t, entries[249], 0); !strings.HasPrefix(got, "name-0250-") {
		t.Errorf("entry 249 name = %q, want prefix name-0250-", got)
	}
}

func TestCursorRewind(t *testing.T) {
	b := peopleFixture(t, 300)
	src := openFixture(t, b)

	c := mustCursor(t, src, b.Root("people"))
	for i := 0; i < 5; i++ {
		if _, err := c.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	if err := c.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	entries := drain(t, c)
	if len(entries) != 300 {
		t.Fatalf("got %d entries after rewind, want 300", len(entries))
	}
	if entries[0].Rowid != 1 {
		t.Errorf("first rowid after rewind = %d, want 1", entries[0].Rowid)
	}
}

func TestCursorReadsSchemaPage(t *testing.T) {
	b := dbgen.New(512)
	b.Table("apples", "CREATE TABLE apples (a text)").Row(1, "fuji")
	b.Table("pears", "CREATE TABLE pears (p text)").Row(1, "bosc")
	src := openFixture(t, b)

	entries := drain(t, mustCursor(t, src, 1))
	if len(entries) != 2 {
		t.Fatalf("schema page has %d entries, want 2", len(entries))
	}
	wantNames := []string{"apples", "pears"}
	for i, e := range entries {
		if got := textAt(t, e, 0); got != "table" {
			t.Errorf("entry %d type = %q, want table", i, got)
		}
		if got := textAt(t, e, 1); got != wantNames[i] {
			t.Errorf("entry %d name = %q, want %q", i, got, wantNames[i])
		}
		rootVal, ok := e.Record.Values[3].(*types.IntegerValue)
		if !ok || rootVal.Value < 2 {
			t.Errorf("entry %d rootpage = %v, want integer >= 2", i, e.Record.Values[3])
		}
	}
}

func TestCursorIndexTreeIncludesInteriorEntries(t *testing.T) {
	b := groupFixture(t)
	src := openFixture(t, b)
	root := b.Root("events_grp")

	p, err := loadPage(src, root)
	if err != nil {
		t.Fatalf("loadPage(root): %v", err)
	}
	if p.leaf() {
		t.Fatal("index fits one page, no interior entries to test")
	}

	entries := drain(t, mustCursor(t, src, root))
	if len(entries) != 202 {
		t.Fatalf("got %d index entries, want 202", len(entries))
	}

	seen := make(map[int64]bool, len(entries))
	var prevKey types.Value
	var prevRowid int64
	for i, e := range entries {
		key, rowid := entryKeyRowid(t, e)
		if seen[rowid] {
			t.Fatalf("rowid %d yielded twice", rowid)
		}
		seen[rowid] = true
		if prevKey != nil {
			c := types.Compare(prevKey, key)
			if c > 0 {
				t.Fatalf("entry %d key ordered before its predecessor", i)
			}
			if c == 0 && prevRowid >= rowid {
				t.Fatalf("entry %d rowid %d not ascending within key", i, rowid)
			}
		}
		prevKey, prevRowid = key, rowid
	}

	// NULL keys order first.
	if k, _ := entryKeyRowid(t, entries[0]); k.Kind() != types.KindNull {
		t.Errorf("first entry key kind = %v, want NULL", k.Kind())
	}
}

func TestCursorAssemblesOverflowPayloads(t *testing.T) {
	big := strings.Repeat("abcdefgh", 375) // 3000 bytes, several overflow pages at 512
	b := dbgen.New(512)
	b.Table("docs", "CREATE TABLE docs (body text, tag integer)").
		Row(1, big, int64(42)).
		Row(2, "small", int64(7))
	src := openFixture(t, b)

	entries := drain(t, mustCursor(t, src, b.Root("docs")))
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if got := textAt(t, entries[0], 0); got != big {
		t.Errorf("body = %d bytes, want %d intact", len(got), len(big))
	}
	tag, ok := entries[0].Record.Values[1].(*types.IntegerValue)
	if !ok || tag.Value != 42 {
		t.Errorf("column after overflow body = %v, want 42", entries[0].Record.Values[1])
	}

	e, err := Seek(src, b.Root("docs"), 1)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if e == nil || textAt(t, e, 0) != big {
		t.Error("Seek did not reassemble the overflowed body")
	}
}

func TestSeekTableTree(t *testing.T) {
	b := dbgen.New(512)
	tb := b.Table("gaps", "CREATE TABLE gaps (label text)")
	for i := 0; i < 200; i++ {
		rowid := int64(1 + 3*i)
		tb.Row(rowid, fmt.Sprintf("row-%03d-%s", rowid, strings.Repeat("p", 20)))
	}
	src := openFixture(t, b)
	root := b.Root("gaps")

	p, err := loadPage(src, root)
	if err != nil {
		t.Fatalf("loadPage(root): %v", err)
	}
	if p.leaf() {
		t.Fatal("fixture fits one page, seek would never descend")
	}

	for _, rowid := range []int64{1, 4, 100, 598} {
		e, err := Seek(src, root, rowid)
		if err != nil {
			t.Fatalf("Seek(%d): %v", rowid, err)
		}
		if e == nil {
			t.Fatalf("Seek(%d) = nil, want a row", rowid)
		}
		if e.Rowid != rowid {
			t.Errorf("Seek(%d) returned rowid %d", rowid, e.Rowid)
		}
		if want := fmt.Sprintf("row-%03d-", rowid); !strings.HasPrefix(textAt(t, e, 0), want) {
			t.Errorf("Seek(%d) label = %q, want prefix %q", rowid, textAt(t, e, 0), want)
		}
	}

	for _, rowid := range []int64{-5, 0, 2, 3, 599, 10000} {
		e, err := Seek(src, root, rowid)
		if err != nil {
			t.Fatalf("Seek(%d): %v", rowid, err)
		}
		if e != nil {
			t.Errorf("Seek(%d) = rowid %d, want nil", rowid, e.Rowid)
		}
	}
}

func TestSeekEmptyTable(t *testing.T) {
	b := dbgen.New(512)
	b.Table("empty", "CREATE TABLE empty (a text)")
	src := openFixture(t, b)

	e, err := Seek(src, b.Root("empty"), 1)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if e != nil {
		t.Errorf("Seek on empty table = rowid %d, want nil", e.Rowid)
	}

	if entries := drain(t, mustCursor(t, src, b.Root("empty"))); len(entries) != 0 {
		t.Errorf("scan of empty table yielded %d entries", len(entries))
	}
}

func TestSeekIndexDuplicateKeys(t *testing.T) {
	b := groupFixture(t)
	src := openFixture(t, b)
	root := b.Root("events_grp")

	matches, err := SeekIndex(src, root, types.NewText("group-03"))
	if err != nil {
		t.Fatalf("SeekIndex: %v", err)
	}

	var want []int64
	for i := int64(1); i <= 200; i++ {
		if i%10 == 3 {
			want = append(want, i)
		}
	}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m.Rowid != want[i] {
			t.Errorf("match %d rowid = %d, want %d", i, m.Rowid, want[i])
		}
		key, ok := m.Key.(*types.TextValue)
		if !ok || key.Value != "group-03" {
			t.Errorf("match %d key = %v, want group-03", i, m.Key)
		}
	}
}

func TestSeekIndexAbsentAndNullKeys(t *testing.T) {
	b := groupFixture(t)
	src := openFixture(t, b)
	root := b.Root("events_grp")

	matches, err := SeekIndex(src, root, types.NewText("group-99"))
	if err != nil {
		t.Fatalf("SeekIndex(absent): %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("absent key matched %d entries", len(matches))
	}

	// Rows 201 and 202 carry NULL keys; nothing equals NULL, not even them.
	matches, err = SeekIndex(src, root, types.Null)
	if err != nil {
		t.Fatalf("SeekIndex(NULL): %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("NULL key matched %d entries", len(matches))
	}
}

func TestSeekIndexOverflowKeys(t *testing.T) {
	b := dbgen.New(512)
	tb := b.Table("blobs", "CREATE TABLE blobs (k text)")
	for i := 1; i <= 30; i++ {
		tb.Row(int64(i), strings.Repeat(string(rune('a'+(i-1)%3)), 600))
	}
	b.Index("blobs_k", "blobs", "CREATE INDEX blobs_k ON blobs (k)", 0)
	src := openFixture(t, b)

	probe := strings.Repeat("b", 600)
	matches, err := SeekIndex(src, b.Root("blobs_k"), types.NewText(probe))
	if err != nil {
		t.Fatalf("SeekIndex: %v", err)
	}

	var want []int64
	for i := int64(1); i <= 30; i++ {
		if (i-1)%3 == 1 {
			want = append(want, i)
		}
	}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m.Rowid != want[i] {
			t.Errorf("match %d rowid = %d, want %d", i, m.Rowid, want[i])
		}
		key, ok := m.Key.(*types.TextValue)
		if !ok || key.Value != probe {
			t.Errorf("match %d key not reassembled from overflow", i)
		}
	}
}

func TestCountRows(t *testing.T) {
	b := peopleFixture(t, 300)
	b.Table("empty", "CREATE TABLE empty (a text)")
	src := openFixture(t, b)

	n, err := CountRows(src, b.Root("people"))
	if err != nil {
		t.Fatalf("CountRows(people): %v", err)
	}
	if n != 300 {
		t.Errorf("CountRows(people) = %d, want 300", n)
	}

	n, err = CountRows(src, b.Root("empty"))
	if err != nil {
		t.Fatalf("CountRows(empty): %v", err)
	}
	if n != 0 {
		t.Errorf("CountRows(empty) = %d, want 0", n)
	}
}

func TestCountRowsIndexTree(t *testing.T) {
	b := groupFixture(t)
	src := openFixture(t, b)

	n, err := CountRows(src, b.Root("events_grp"))
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if n != 202 {
		t.Errorf("CountRows(index) = %d, want 202 including interior entries", n)
	}
}

func TestParsePageRejectsCorruptHeaders(t *testing.T) {
	badType := make([]byte, 512)
	badType[0] = 0x63
	if _, err := parsePage(2, badType, 512); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("bad type byte: err = %v, want CORRUPT_BTREE", err)
	}

	hugeCount := make([]byte, 512)
	hugeCount[0] = typeLeafTable
	binary.BigEndian.PutUint16(hugeCount[3:], 400)
	if _, err := parsePage(2, hugeCount, 512); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("oversized pointer array: err = %v, want CORRUPT_BTREE", err)
	}
}

func TestCellPointerOutsidePage(t *testing.T) {
	data := make([]byte, 512)
	data[0] = typeLeafTable
	binary.BigEndian.PutUint16(data[3:], 1)
	binary.BigEndian.PutUint16(data[5:], 500)

	for _, ptr := range []uint16{600, 5} {
		binary.BigEndian.PutUint16(data[8:], ptr)
		p, err := parsePage(2, data, 512)
		if err != nil {
			t.Fatalf("parsePage: %v", err)
		}
		if _, err := p.cellPointer(0); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
			t.Errorf("pointer %d: err = %v, want CORRUPT_BTREE", ptr, err)
		}
	}
}

func TestCursorChildOutOfRange(t *testing.T) {
	b := peopleFixture(t, 300)
	data := builtBytes(t, b)
	root := b.Root("people")

	off := int(root-1) * 512
	if data[off] != typeInteriorTable {
		t.Fatal("fixture root is not an interior page")
	}
	binary.BigEndian.PutUint32(data[off+8:], 9999) // right pointer outside the file
	src := openRaw(t, data)

	c := mustCursor(t, src, root)
	if err := drainErr(c); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("scan err = %v, want CORRUPT_BTREE", err)
	}

	// The same damage caught on the point-lookup path.
	if _, err := Seek(src, root, 300); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("Seek err = %v, want CORRUPT_BTREE", err)
	}
}

func TestCursorCycleGuard(t *testing.T) {
	b := peopleFixture(t, 300)
	data := builtBytes(t, b)
	root := b.Root("people")

	off := int(root-1) * 512
	if data[off] != typeInteriorTable {
		t.Fatal("fixture root is not an interior page")
	}
	binary.BigEndian.PutUint32(data[off+8:], root) // right pointer loops back to the root
	src := openRaw(t, data)

	c := mustCursor(t, src, root)
	if err := drainErr(c); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("scan err = %v, want CORRUPT_BTREE", err)
	}

	if _, err := CountRows(src, root); !sqlerr.HasCode(err, sqlerr.CodeCorruptBTree) {
		t.Errorf("CountRows err = %v, want CORRUPT_BTREE", err)
	}
}

func TestCursorIsTableTree(t *testing.T) {
	b := groupFixture(t)
	src := openFixture(t, b)

	tbl := mustCursor(t, src, b.Root("events"))
	if !tbl.IsTableTree() {
		t.Error("table cursor reports an index tree")
	}
	idx := mustCursor(t, src, b.Root("events_grp"))
	if idx.IsTableTree() {
		t.Error("index cursor reports a table tree")
	}
}
