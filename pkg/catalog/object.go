package catalog

import (
	"math"
	"strings"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/record"
	"litequery/pkg/types"
)

// ObjectKind classifies a schema row. The file stores it as the text of the
// row's first column.
type ObjectKind string

const (
	ObjectTable   ObjectKind = "table"
	ObjectIndex   ObjectKind = "index"
	ObjectView    ObjectKind = "view"
	ObjectTrigger ObjectKind = "trigger"
)

// SchemaObject is one decoded row of the schema table, together with the
// shape information parsed from its SQL text.
type SchemaObject struct {
	Kind      ObjectKind
	Name      string
	TableName string // the table the object belongs to; for tables, the name itself
	RootPage  uint32 // 0 for views, triggers, and virtual tables
	SQL       string // "" when the file stores NULL, as for sqlite_autoindex entries

	// Columns is the declared column order of a table. It stays nil for
	// tables whose SQL declares no columns (CREATE TABLE ... AS SELECT,
	// virtual tables); queries against such tables are refused.
	Columns []string

	// RowidAlias is the position in Columns of the INTEGER PRIMARY KEY
	// column, or -1. The file stores NULL in that position and the real
	// value travels in the cell's rowid.
	RowidAlias int

	// IndexColumn is the key column of a single-column index, or "" when
	// the index cannot serve equality seeks.
	IndexColumn string
}

// ColumnIndex finds a declared column by name. Matching is case-insensitive.
//
// Returns the position in the declared column order and true, or -1 and
// false when the table has no such column.
func (o *SchemaObject) ColumnIndex(name string) (int, bool) {
	for i, col := range o.Columns {
		if strings.EqualFold(col, name) {
			return i, true
		}
	}
	return -1, false
}

// schemaTableObject builds the synthetic object for the schema table itself.
// The file stores no row for it; every database simply has this table rooted
// at page 1.
func schemaTableObject() *SchemaObject {
	return &SchemaObject{
		Kind:       ObjectTable,
		Name:       "sqlite_schema",
		TableName:  "sqlite_schema",
		RootPage:   schemaRootPage,
		SQL:        schemaSQL,
		Columns:    []string{"type", "name", "tbl_name", "rootpage", "sql"},
		RowidAlias: -1,
	}
}

// objectFromRow decodes one schema row. The row must carry the five
// canonical columns: type, name, tbl_name, rootpage, sql.
func objectFromRow(rec *record.Record) (*SchemaObject, error) {
	if rec.Len() < 5 {
		return nil, sqlerr.Newf(sqlerr.CodeCorruptBTree, "schema row has %d columns, want 5", rec.Len())
	}

	kind, err := textColumn(rec, 0, "type")
	if err != nil {
		return nil, err
	}
	name, err := textColumn(rec, 1, "name")
	if err != nil {
		return nil, err
	}
	tblName, err := textColumn(rec, 2, "tbl_name")
	if err != nil {
		return nil, err
	}

	var root uint32
	switch v := rec.Values[3].(type) {
	case *types.IntegerValue:
		if v.Value < 0 || v.Value > math.MaxUint32 {
			return nil, sqlerr.Newf(sqlerr.CodeCorruptBTree, "schema row names impossible root page %d", v.Value)
		}
		root = uint32(v.Value)
	case *types.NullValue:
		// views and triggers have no tree
	default:
		return nil, sqlerr.Newf(sqlerr.CodeCorruptBTree, "schema row column rootpage is %s, want INTEGER", rec.Values[3].Kind())
	}

	var sql string
	switch v := rec.Values[4].(type) {
	case *types.TextValue:
		sql = v.Value
	case *types.NullValue:
		// automatic indexes store NULL here
	default:
		return nil, sqlerr.Newf(sqlerr.CodeCorruptBTree, "schema row column sql is %s, want TEXT", rec.Values[4].Kind())
	}

	return &SchemaObject{
		Kind:       ObjectKind(strings.ToLower(kind)),
		Name:       name,
		TableName:  tblName,
		RootPage:   root,
		SQL:        sql,
		RowidAlias: -1,
	}, nil
}

func textColumn(rec *record.Record, i int, col string) (string, error) {
	v, ok := rec.Values[i].(*types.TextValue)
	if !ok {
		return "", sqlerr.Newf(sqlerr.CodeCorruptBTree, "schema row column %s is %s, want TEXT", col, rec.Values[i].Kind())
	}
	return v.Value, nil
}
