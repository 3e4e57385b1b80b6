// Package dbgen builds small but fully valid SQLite database files in
// memory. It exists for tests: fixtures are described as tables, rows, and
// indexes, and Build lays them out as real pages, so storage-layer tests can
// read the same bytes the production decoder will meet in the wild.
//
// The builder writes the on-disk format directly: file header, table and
// index B-trees with interior levels when the rows outgrow one page,
// overflow chains for oversized payloads, and the schema table on page 1.
// It never uses the decoding packages under test, so a bug cannot cancel
// itself out by appearing on both sides.
package dbgen

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"unicode/utf16"

	"litequery/pkg/types"
)

// Builder accumulates a database description. Zero values of the optional
// fields produce a vanilla UTF-8 database whose header page count is valid.
type Builder struct {
	// PageSize must be a power of two in 512..65536.
	PageSize int

	// Reserved is the per-page reserved byte count (header offset 20).
	Reserved int

	// Encoding is the header text encoding: 1 UTF-8 (default), 2 UTF-16le,
	// 3 UTF-16be. String values in records are encoded accordingly.
	Encoding int

	// ChangeCounter and VersionValidFor control the header page-count
	// validity rule. Both default to 1, making the stored count valid.
	ChangeCounter   uint32
	VersionValidFor uint32

	// HeaderPageCount overrides the stored page count when non-zero.
	// Together with a mismatched VersionValidFor it fabricates the stale
	// count legacy writers leave behind.
	HeaderPageCount uint32

	SchemaCookie  uint32
	UserVersion   uint32
	ApplicationID uint32

	objects []*schemaObject
}

type schemaObject struct {
	typ     string
	name    string
	tblName string
	sql     string // empty means NULL
	root    uint32 // fixed value for raw objects, else filled during Build
	table   *TableSpec
	index   *IndexSpec
}

// TableSpec holds a table's DDL and rows.
type TableSpec struct {
	name string
	rows []TableRow
}

// TableRow is one stored row. Values are Go literals: nil, int64, float64,
// string, or []byte. The builder is schema-blind: when a table declares an
// INTEGER PRIMARY KEY the caller passes nil in that position, exactly as the
// format stores it, and the rowid carries the value.
type TableRow struct {
	Rowid  int64
	Values []any
}

// IndexSpec holds an index over one column of a table.
type IndexSpec struct {
	name   string
	table  string
	keyCol int
}

// New returns a builder for a database with the given page size.
func New(pageSize int) *Builder {
	return &Builder{
		PageSize:        pageSize,
		Encoding:        1,
		ChangeCounter:   1,
		VersionValidFor: 1,
	}
}

// Table declares a table and returns its spec for row population. The DDL
// text is stored in the schema verbatim.
func (b *Builder) Table(name, sql string) *TableSpec {
	t := &TableSpec{name: name}
	b.objects = append(b.objects, &schemaObject{
		typ: "table", name: name, tblName: name, sql: sql, table: t,
	})
	return t
}

// Row appends a row. Rows may be added in any rowid order.
func (t *TableSpec) Row(rowid int64, values ...any) *TableSpec {
	t.rows = append(t.rows, TableRow{Rowid: rowid, Values: values})
	return t
}

// Index declares an index whose key is column keyCol (0-based position in
// each row's values) of the named table. Entries are built from the table's
// rows at Build time.
func (b *Builder) Index(name, table, sql string, keyCol int) {
	b.objects = append(b.objects, &schemaObject{
		typ: "index", name: name, tblName: table, sql: sql,
		index: &IndexSpec{name: name, table: table, keyCol: keyCol},
	})
}

// IndexDeclared declares an index whose schema row claims declaredTable but
// whose entries are built from srcTable's rows. Pointing those two at
// different tables yields an index carrying rowids its declared table does
// not have, the shape left behind by a torn write.
func (b *Builder) IndexDeclared(name, srcTable, declaredTable, sql string, keyCol int) {
	b.objects = append(b.objects, &schemaObject{
		typ: "index", name: name, tblName: declaredTable, sql: sql,
		index: &IndexSpec{name: name, table: srcTable, keyCol: keyCol},
	})
}

// Object appends a raw schema row with a fixed root page, for views,
// triggers, and other rows no tree backs. An empty sql stores NULL.
func (b *Builder) Object(typ, name, tblName string, root uint32, sql string) {
	b.objects = append(b.objects, &schemaObject{
		typ: typ, name: name, tblName: tblName, sql: sql, root: root,
	})
}

// Root returns the root page Build assigned to the named object, so tests
// can address a tree directly. Zero before Build or for unknown names.
func (b *Builder) Root(name string) uint32 {
	for _, obj := range b.objects {
		if obj.name == name {
			return obj.root
		}
	}
	return 0
}

// Build lays out the file and returns its bytes.
func (b *Builder) Build() ([]byte, error) {
	if b.PageSize < 512 || b.PageSize > 65536 || b.PageSize&(b.PageSize-1) != 0 {
		return nil, fmt.Errorf("page size %d is not a power of two in 512..65536", b.PageSize)
	}
	usable := b.PageSize - b.Reserved
	if usable < 480 {
		return nil, fmt.Errorf("reserved %d leaves %d usable bytes, need 480", b.Reserved, usable)
	}

	g := &gen{b: b, usable: usable}
	g.pages = make([][]byte, 2) // index 0 unused, page 1 reserved for the schema
	g.pages[1] = make([]byte, b.PageSize)

	for _, obj := range b.objects {
		switch {
		case obj.table != nil:
			root, err := g.buildTableTree(obj.table.rows, 0, 0)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", obj.name, err)
			}
			obj.root = root
		case obj.index != nil:
			root, err := g.buildIndexTree(obj.index, b.objects)
			if err != nil {
				return nil, fmt.Errorf("index %s: %w", obj.name, err)
			}
			obj.root = root
		}
	}

	if err := g.buildSchemaTree(b.objects); err != nil {
		return nil, err
	}

	g.writeHeader()

	out := make([]byte, 0, (len(g.pages)-1)*b.PageSize)
	for _, p := range g.pages[1:] {
		out = append(out, p...)
	}
	return out, nil
}

// AppendVarint exposes the builder's varint encoder for round-trip tests.
func AppendVarint(dst []byte, v uint64) []byte {
	return appendVarint(dst, v)
}

// EncodeRecord serializes values into the record format without building a
// whole file, for decoder tests that want a lone payload. enc is the header
// text encoding (1 UTF-8, 2 UTF-16le, 3 UTF-16be).
func EncodeRecord(enc int, values ...any) []byte {
	b := New(512)
	b.Encoding = enc
	g := &gen{b: b, usable: 512}
	return g.encodeRecord(values)
}

// gen carries the mutable layout state during one Build.
type gen struct {
	b      *Builder
	usable int
	pages  [][]byte // 1-based
}

func (g *gen) alloc() uint32 {
	g.pages = append(g.pages, make([]byte, g.b.PageSize))
	return uint32(len(g.pages) - 1)
}

// Page type bytes.
const (
	interiorIndex = 0x02
	interiorTable = 0x05
	leafIndex     = 0x0a
	leafTable     = 0x0d
)

// writeBTreePage lays out one page: header at headerOffset (100 on page 1,
// 0 elsewhere), cell pointer array in cell order, cell content packed
// downward from the end of the usable region.
func (g *gen) writeBTreePage(pageNo uint32, headerOffset int, pageType byte, cells [][]byte, rightMost uint32) error {
	page := g.pages[pageNo]
	hdrLen := 8
	if pageType == interiorIndex || pageType == interiorTable {
		hdrLen = 12
	}
	ptrStart := headerOffset + hdrLen

	ofs := g.usable
	positions := make([]int, len(cells))
	for i, cell := range cells {
		ofs -= len(cell)
		positions[i] = ofs
	}
	if ofs < ptrStart+2*len(cells) {
		return fmt.Errorf("page %d overflows: %d cells need %d bytes", pageNo, len(cells), g.usable-ofs)
	}

	page[headerOffset] = pageType
	binary.BigEndian.PutUint16(page[headerOffset+1:], 0)
	binary.BigEndian.PutUint16(page[headerOffset+3:], uint16(len(cells)))
	binary.BigEndian.PutUint16(page[headerOffset+5:], uint16(ofs))
	page[headerOffset+7] = 0
	if hdrLen == 12 {
		binary.BigEndian.PutUint32(page[headerOffset+8:], rightMost)
	}

	for i, cell := range cells {
		binary.BigEndian.PutUint16(page[ptrStart+2*i:], uint16(positions[i]))
		copy(page[positions[i]:], cell)
	}
	return nil
}

// capacity returns the cell bytes (content plus 2-byte pointers) one page
// can hold.
func (g *gen) capacity(headerOffset, hdrLen int) int {
	return g.usable - headerOffset - hdrLen
}

// ---- table trees ----

func (g *gen) buildTableTree(rows []TableRow, forceRoot uint32, rootOffset int) (uint32, error) {
	sorted := make([]TableRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rowid < sorted[j].Rowid })

	cells := make([][]byte, len(sorted))
	for i, row := range sorted {
		payload := g.encodeRecord(row.Values)
		cells[i] = g.tableLeafCell(row.Rowid, payload)
	}

	// A root placed on page 1 shares the page with the 100-byte file header.
	if forceRoot != 0 {
		if g.fits(cells, rootOffset, 8) {
			return forceRoot, g.writeBTreePage(forceRoot, rootOffset, leafTable, cells, 0)
		}
	} else if g.fits(cells, 0, 8) {
		root := g.alloc()
		return root, g.writeBTreePage(root, 0, leafTable, cells, 0)
	}

	chunks := g.chunk(cells, g.capacity(0, 8))
	children := make([]tableChild, len(chunks))
	for i, chunk := range chunks {
		pg := g.alloc()
		if err := g.writeBTreePage(pg, 0, leafTable, chunk, 0); err != nil {
			return 0, err
		}
		last := chunk[len(chunk)-1]
		children[i] = tableChild{page: pg, maxKey: readCellRowid(last)}
	}
	return g.buildTableUpper(children, forceRoot, rootOffset)
}

type tableChild struct {
	page   uint32
	maxKey int64
}

// buildTableUpper stacks interior levels until one page holds the whole
// child list. Each child except a page's last becomes a cell keyed by that
// child's largest rowid; the last child becomes the right-most pointer.
func (g *gen) buildTableUpper(children []tableChild, forceRoot uint32, rootOffset int) (uint32, error) {
	for {
		cells := make([][]byte, len(children)-1)
		for i := 0; i < len(children)-1; i++ {
			cells[i] = tableInteriorCell(children[i].page, children[i].maxKey)
		}
		rightMost := children[len(children)-1].page

		if forceRoot != 0 && g.fits(cells, rootOffset, 12) {
			return forceRoot, g.writeBTreePage(forceRoot, rootOffset, interiorTable, cells, rightMost)
		}
		if forceRoot == 0 && g.fits(cells, 0, 12) {
			root := g.alloc()
			return root, g.writeBTreePage(root, 0, interiorTable, cells, rightMost)
		}

		groups := g.chunkChildren(children, g.capacity(0, 12))
		next := make([]tableChild, len(groups))
		for i, grp := range groups {
			cells := make([][]byte, len(grp)-1)
			for j := 0; j < len(grp)-1; j++ {
				cells[j] = tableInteriorCell(grp[j].page, grp[j].maxKey)
			}
			pg := g.alloc()
			if err := g.writeBTreePage(pg, 0, interiorTable, cells, grp[len(grp)-1].page); err != nil {
				return 0, err
			}
			next[i] = tableChild{page: pg, maxKey: grp[len(grp)-1].maxKey}
		}
		if len(next) >= len(children) {
			return 0, fmt.Errorf("interior level failed to shrink (%d -> %d)", len(children), len(next))
		}
		children = next
	}
}

// chunkChildren splits a child list so each group's cells (all members but
// the last) fit one interior page.
func (g *gen) chunkChildren(children []tableChild, limit int) [][]tableChild {
	var groups [][]tableChild
	var cur []tableChild
	used := 0
	for _, ch := range children {
		cost := 2 + len(tableInteriorCell(ch.page, ch.maxKey))
		if len(cur) > 1 && used+cost > limit {
			groups = append(groups, cur)
			cur = nil
			used = 0
		}
		cur = append(cur, ch)
		used += cost
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

// ---- index trees ----

func (g *gen) buildIndexTree(spec *IndexSpec, objects []*schemaObject) (uint32, error) {
	var table *TableSpec
	for _, obj := range objects {
		if obj.table != nil && obj.name == spec.table {
			table = obj.table
		}
	}
	if table == nil {
		return 0, fmt.Errorf("no table %s for index", spec.table)
	}

	type entry struct {
		key   types.Value
		rowid int64
		rec   []byte
	}
	entries := make([]entry, 0, len(table.rows))
	for _, row := range table.rows {
		if spec.keyCol >= len(row.Values) {
			return 0, fmt.Errorf("key column %d outside row of %d values", spec.keyCol, len(row.Values))
		}
		key := row.Values[spec.keyCol]
		entries = append(entries, entry{
			key:   valueOf(key),
			rowid: row.Rowid,
			rec:   g.encodeRecord([]any{key, row.Rowid}),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if c := types.Compare(entries[i].key, entries[j].key); c != 0 {
			return c < 0
		}
		return entries[i].rowid < entries[j].rowid
	})

	// Pack entries into leaves; the entry after each full leaf is pulled up
	// into the parent, as the format stores real entries in interior cells.
	var pairs []indexPair
	var cur [][]byte
	used := 0
	limit := g.capacity(0, 8)
	flush := func(sep []byte) error {
		pg := g.alloc()
		if err := g.writeBTreePage(pg, 0, leafIndex, cur, 0); err != nil {
			return err
		}
		pairs = append(pairs, indexPair{child: pg, sep: sep})
		cur = nil
		used = 0
		return nil
	}
	for i := 0; i < len(entries); i++ {
		cell := g.indexCell(entries[i].rec, 0)
		if len(cur) > 0 && used+2+len(cell) > limit {
			if err := flush(entries[i].rec); err != nil {
				return 0, err
			}
			continue
		}
		cur = append(cur, cell)
		used += 2 + len(cell)
	}

	if len(pairs) == 0 {
		root := g.alloc()
		return root, g.writeBTreePage(root, 0, leafIndex, cur, 0)
	}
	if err := flush(nil); err != nil {
		return 0, err
	}
	return g.buildIndexUpper(pairs)
}

// indexPair is a child page plus the separator entry that follows it in key
// order; the last pair of a level has no separator.
type indexPair struct {
	child uint32
	sep   []byte
}

func (g *gen) buildIndexUpper(pairs []indexPair) (uint32, error) {
	for {
		if g.indexLevelFits(pairs) {
			root := g.alloc()
			cells := make([][]byte, len(pairs)-1)
			for i := 0; i < len(pairs)-1; i++ {
				cells[i] = g.indexCell(pairs[i].sep, pairs[i].child)
			}
			return root, g.writeBTreePage(root, 0, interiorIndex, cells, pairs[len(pairs)-1].child)
		}

		var next []indexPair
		var cur [][]byte
		used := 0
		limit := g.capacity(0, 12)
		i := 0
		for i < len(pairs) {
			p := pairs[i]
			if p.sep == nil {
				// Final child of the level closes the last page.
				pg := g.alloc()
				if err := g.writeBTreePage(pg, 0, interiorIndex, cur, p.child); err != nil {
					return 0, err
				}
				next = append(next, indexPair{child: pg, sep: nil})
				cur = nil
				used = 0
				i++
				continue
			}
			cell := g.indexCell(p.sep, p.child)
			if len(cur) > 0 && used+2+len(cell) > limit {
				pg := g.alloc()
				if err := g.writeBTreePage(pg, 0, interiorIndex, cur, p.child); err != nil {
					return 0, err
				}
				next = append(next, indexPair{child: pg, sep: p.sep})
				cur = nil
				used = 0
				i++
				continue
			}
			cur = append(cur, cell)
			used += 2 + len(cell)
			i++
		}
		if len(next) >= len(pairs) {
			return 0, fmt.Errorf("index interior level failed to shrink")
		}
		pairs = next
	}
}

func (g *gen) indexLevelFits(pairs []indexPair) bool {
	cells := make([][]byte, len(pairs)-1)
	for i := 0; i < len(pairs)-1; i++ {
		cells[i] = g.indexCell(pairs[i].sep, pairs[i].child)
	}
	return g.fits(cells, 0, 12)
}

// ---- schema tree (page 1) ----

func (g *gen) buildSchemaTree(objects []*schemaObject) error {
	rows := make([]TableRow, len(objects))
	for i, obj := range objects {
		var sql any
		if obj.sql != "" {
			sql = obj.sql
		}
		rows[i] = TableRow{
			Rowid:  int64(i + 1),
			Values: []any{obj.typ, obj.name, obj.tblName, int64(obj.root), sql},
		}
	}
	_, err := g.buildTableTree(rows, 1, 100)
	return err
}

// ---- cells and payload ----

func (g *gen) fits(cells [][]byte, headerOffset, hdrLen int) bool {
	used := 0
	for _, c := range cells {
		used += 2 + len(c)
	}
	return used <= g.capacity(headerOffset, hdrLen)
}

func (g *gen) chunk(cells [][]byte, limit int) [][][]byte {
	var chunks [][][]byte
	var cur [][]byte
	used := 0
	for _, c := range cells {
		if len(cur) > 0 && used+2+len(c) > limit {
			chunks = append(chunks, cur)
			cur = nil
			used = 0
		}
		cur = append(cur, c)
		used += 2 + len(c)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func (g *gen) tableLeafCell(rowid int64, payload []byte) []byte {
	maxLocal := g.usable - 35
	minLocal := (g.usable-12)*32/255 - 23
	local, overflow := g.splitPayload(payload, maxLocal, minLocal)

	cell := appendVarint(nil, uint64(len(payload)))
	cell = appendVarint(cell, uint64(rowid))
	cell = append(cell, local...)
	if overflow != 0 {
		cell = binary.BigEndian.AppendUint32(cell, overflow)
	}
	return cell
}

// indexCell builds a leaf cell when leftChild is 0, an interior cell
// otherwise. Index pages use the same local-payload bounds at both levels.
func (g *gen) indexCell(payload []byte, leftChild uint32) []byte {
	maxLocal := (g.usable-12)*64/255 - 23
	minLocal := (g.usable-12)*32/255 - 23
	local, overflow := g.splitPayload(payload, maxLocal, minLocal)

	var cell []byte
	if leftChild != 0 {
		cell = binary.BigEndian.AppendUint32(cell, leftChild)
	}
	cell = appendVarint(cell, uint64(len(payload)))
	cell = append(cell, local...)
	if overflow != 0 {
		cell = binary.BigEndian.AppendUint32(cell, overflow)
	}
	return cell
}

func tableInteriorCell(child uint32, key int64) []byte {
	cell := binary.BigEndian.AppendUint32(nil, child)
	return appendVarint(cell, uint64(key))
}

// splitPayload keeps the format's local-payload share on the page and spills
// the rest into a fresh overflow chain, returning the first chain page.
func (g *gen) splitPayload(payload []byte, maxLocal, minLocal int) ([]byte, uint32) {
	if len(payload) <= maxLocal {
		return payload, 0
	}
	local := minLocal + (len(payload)-minLocal)%(g.usable-4)
	if local > maxLocal {
		local = minLocal
	}
	return payload[:local], g.writeOverflow(payload[local:])
}

func (g *gen) writeOverflow(rest []byte) uint32 {
	var first, prev uint32
	for len(rest) > 0 {
		pg := g.alloc()
		if first == 0 {
			first = pg
		} else {
			binary.BigEndian.PutUint32(g.pages[prev][0:4], pg)
		}
		n := g.usable - 4
		if n > len(rest) {
			n = len(rest)
		}
		copy(g.pages[pg][4:], rest[:n])
		rest = rest[n:]
		prev = pg
	}
	return first
}

// readCellRowid re-reads the rowid varint of a finished table leaf cell.
func readCellRowid(cell []byte) int64 {
	_, n := getVarint(cell)
	rowid, _ := getVarint(cell[n:])
	return int64(rowid)
}

// ---- record encoding ----

// encodeRecord serializes values into the record format: a header of serial
// types (prefixed by its own length) followed by the value bodies.
func (g *gen) encodeRecord(values []any) []byte {
	var serials []byte
	var body []byte
	for _, v := range values {
		st, b := g.serialTypeAndBody(v)
		serials = appendVarint(serials, st)
		body = append(body, b...)
	}

	// The header length varint counts itself, so its width feeds back into
	// the value it encodes.
	headerLen := len(serials) + 1
	for varintLen(uint64(headerLen)) != headerLen-len(serials) {
		headerLen = len(serials) + varintLen(uint64(headerLen))
	}

	rec := appendVarint(nil, uint64(headerLen))
	rec = append(rec, serials...)
	return append(rec, body...)
}

func (g *gen) serialTypeAndBody(v any) (uint64, []byte) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int:
		return intSerial(int64(val))
	case int64:
		return intSerial(val)
	case float64:
		return 7, binary.BigEndian.AppendUint64(nil, math.Float64bits(val))
	case string:
		b := g.encodeText(val)
		return uint64(2*len(b) + 13), b
	case []byte:
		return uint64(2*len(val) + 12), val
	default:
		panic(fmt.Sprintf("dbgen: unsupported value type %T", v))
	}
}

func intSerial(v int64) (uint64, []byte) {
	switch {
	case v == 0:
		return 8, nil
	case v == 1:
		return 9, nil
	case v >= -128 && v <= 127:
		return 1, intBody(v, 1)
	case v >= -32768 && v <= 32767:
		return 2, intBody(v, 2)
	case v >= -(1<<23) && v < 1<<23:
		return 3, intBody(v, 3)
	case v >= -(1<<31) && v < 1<<31:
		return 4, intBody(v, 4)
	case v >= -(1<<47) && v < 1<<47:
		return 5, intBody(v, 6)
	default:
		return 6, intBody(v, 8)
	}
}

func intBody(v int64, width int) []byte {
	b := make([]byte, width)
	for i := 0; i < width; i++ {
		b[i] = byte(v >> (8 * (width - 1 - i)))
	}
	return b
}

func (g *gen) encodeText(s string) []byte {
	switch g.b.Encoding {
	case 2: // UTF-16le
		units := utf16.Encode([]rune(s))
		b := make([]byte, 0, 2*len(units))
		for _, u := range units {
			b = append(b, byte(u), byte(u>>8))
		}
		return b
	case 3: // UTF-16be
		units := utf16.Encode([]rune(s))
		b := make([]byte, 0, 2*len(units))
		for _, u := range units {
			b = append(b, byte(u>>8), byte(u))
		}
		return b
	default:
		return []byte(s)
	}
}

func valueOf(v any) types.Value {
	switch val := v.(type) {
	case nil:
		return types.Null
	case int:
		return types.NewInteger(int64(val))
	case int64:
		return types.NewInteger(val)
	case float64:
		return types.NewFloat(val)
	case string:
		return types.NewText(val)
	case []byte:
		return types.NewBlob(val)
	default:
		panic(fmt.Sprintf("dbgen: unsupported value type %T", v))
	}
}

// ---- varints ----

// appendVarint writes v in the big-endian base-128 form: up to eight bytes
// of seven payload bits with the high bit set on all but the last, and a
// nine-byte form whose final byte carries a full eight bits.
func appendVarint(dst []byte, v uint64) []byte {
	if v>>56 != 0 {
		var buf [9]byte
		buf[8] = byte(v)
		v >>= 8
		for i := 7; i >= 0; i-- {
			buf[i] = byte(v&0x7f) | 0x80
			v >>= 7
		}
		return append(dst, buf[:]...)
	}

	var buf [8]byte
	n := 8
	for {
		n--
		buf[n] = byte(v&0x7f) | 0x80
		v >>= 7
		if v == 0 {
			break
		}
	}
	buf[7] &^= 0x80
	return append(dst, buf[n:]...)
}

func varintLen(v uint64) int {
	n := 1
	for v >>= 7; v != 0 && n < 9; v >>= 7 {
		n++
	}
	if n == 9 {
		return 9
	}
	return n
}

// getVarint decodes a varint, returning the value and bytes consumed. Only
// used to re-read cells the builder itself wrote.
func getVarint(buf []byte) (uint64, int) {
	var v uint64
	for i := 0; i < 9 && i < len(buf); i++ {
		b := buf[i]
		if i == 8 {
			return v<<8 | uint64(b), 9
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, i + 1
		}
	}
	return v, len(buf)
}

// ---- header ----

func (g *gen) writeHeader() {
	h := g.pages[1]
	copy(h[0:16], "SQLite format 3\x00")

	if g.b.PageSize == 65536 {
		binary.BigEndian.PutUint16(h[16:18], 1)
	} else {
		binary.BigEndian.PutUint16(h[16:18], uint16(g.b.PageSize))
	}
	h[18] = 1 // write version: legacy
	h[19] = 1 // read version: legacy
	h[20] = byte(g.b.Reserved)
	h[21] = 64
	h[22] = 32
	h[23] = 32
	binary.BigEndian.PutUint32(h[24:28], g.b.ChangeCounter)

	pageCount := uint32(len(g.pages) - 1)
	if g.b.HeaderPageCount != 0 {
		pageCount = g.b.HeaderPageCount
	}
	binary.BigEndian.PutUint32(h[28:32], pageCount)

	binary.BigEndian.PutUint32(h[40:44], g.b.SchemaCookie)
	binary.BigEndian.PutUint32(h[44:48], 4) // schema format
	binary.BigEndian.PutUint32(h[56:60], uint32(g.b.Encoding))
	binary.BigEndian.PutUint32(h[60:64], g.b.UserVersion)
	binary.BigEndian.PutUint32(h[68:72], g.b.ApplicationID)
	binary.BigEndian.PutUint32(h[92:96], g.b.VersionValidFor)
	binary.BigEndian.PutUint32(h[96:100], 3045001) // release 3.45.1
}
