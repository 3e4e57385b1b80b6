// Package catalog loads the schema table rooted at page 1 into an in-memory
// view of every table, index, view, and trigger in the file, with the DDL of
// tables and indexes parsed far enough to plan queries: the declared column
// order, the rowid-alias column, and the key column of each index. Object
// names resolve case-insensitively. A catalog is built once per opened
// database and never changes afterwards, because the engine has no write
// path.
package catalog

import (
	"strings"

	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/btree"
	"litequery/pkg/storage/page"
)

// schemaRootPage is where the schema table always lives.
const schemaRootPage = 1

// schemaSQL is the canonical definition of the schema table itself.
const schemaSQL = "CREATE TABLE sqlite_schema(type text, name text, tbl_name text, rootpage integer, sql text)"

// Catalog is the decoded schema of one database file.
type Catalog struct {
	objects []*SchemaObject
	byName  map[string]*SchemaObject
	indexes map[string][]*SchemaObject
}

// Load builds the catalog by walking the schema table at page 1.
//
// Parameters:
//   - src: the open page source for the database file
//
// Returns the populated catalog, or an error when page 1 cannot be walked or
// a schema row does not have the canonical five-column shape. The synthetic
// sqlite_schema object (alias sqlite_master) is always present, so queries
// can introspect the catalog like any other table.
func Load(src *page.Source) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]*SchemaObject),
		indexes: make(map[string][]*SchemaObject),
	}
	schema := schemaTableObject()
	c.byName["sqlite_schema"] = schema
	c.byName["sqlite_master"] = schema

	cur, err := btree.NewCursor(src, schemaRootPage)
	if err != nil {
		return nil, sqlerr.Wrap(err, sqlerr.CodeCorruptBTree, "Load", "Catalog")
	}
	for {
		entry, err := cur.Next()
		if err != nil {
			return nil, sqlerr.Wrap(err, sqlerr.CodeCorruptBTree, "Load", "Catalog")
		}
		if entry == nil {
			return c, nil
		}
		obj, err := objectFromRow(entry.Record)
		if err != nil {
			return nil, sqlerr.Wrap(err, sqlerr.CodeCorruptBTree, "Load", "Catalog")
		}
		c.add(obj)
	}
}

// add registers a decoded object and parses whatever shape its SQL carries.
// Shape parsing is best effort: a table whose SQL declares no columns still
// loads, and is rejected only when a query touches it.
func (c *Catalog) add(obj *SchemaObject) {
	switch obj.Kind {
	case ObjectTable:
		if cols, alias, err := tableShape(obj.SQL); err == nil {
			obj.Columns = cols
			obj.RowidAlias = alias
		}
	case ObjectIndex:
		obj.IndexColumn = indexedColumn(obj.SQL)
		key := strings.ToLower(obj.TableName)
		c.indexes[key] = append(c.indexes[key], obj)
	}

	c.objects = append(c.objects, obj)
	name := strings.ToLower(obj.Name)
	if _, taken := c.byName[name]; !taken {
		c.byName[name] = obj
	}
}

// Object resolves any schema object by name. Matching is case-insensitive.
func (c *Catalog) Object(name string) (*SchemaObject, error) {
	if obj, ok := c.byName[strings.ToLower(name)]; ok {
		return obj, nil
	}
	return nil, sqlerr.Newf(sqlerr.CodeUnknownTable, "no such object: %s", name)
}

// Table resolves a table by name. Matching is case-insensitive; the
// synthetic sqlite_schema table and its sqlite_master alias resolve like any
// stored table.
func (c *Catalog) Table(name string) (*SchemaObject, error) {
	obj, ok := c.byName[strings.ToLower(name)]
	if !ok || obj.Kind != ObjectTable {
		return nil, sqlerr.Newf(sqlerr.CodeUnknownTable, "no such table: %s", name)
	}
	return obj, nil
}

// Index resolves an index by name. Matching is case-insensitive.
func (c *Catalog) Index(name string) (*SchemaObject, error) {
	obj, ok := c.byName[strings.ToLower(name)]
	if !ok || obj.Kind != ObjectIndex {
		return nil, sqlerr.Newf(sqlerr.CodeUnknownIndex, "no such index: %s", name)
	}
	return obj, nil
}

// IndexesOn returns the indexes declared on a table, in the order their rows
// appear in the schema table.
//
// Parameters:
//   - table: the table name, matched case-insensitively
//
// Returns a possibly empty slice, or UNKNOWN_TABLE when no such table
// exists.
func (c *Catalog) IndexesOn(table string) ([]*SchemaObject, error) {
	if _, err := c.Table(table); err != nil {
		return nil, err
	}
	return c.indexes[strings.ToLower(table)], nil
}

// TablesInOrder returns the names of the user tables in the order their rows
// appear in the schema table. Internal sqlite_* tables are left out,
// matching what a table listing shows.
func (c *Catalog) TablesInOrder() []string {
	var names []string
	for _, obj := range c.objects {
		if obj.Kind != ObjectTable || strings.HasPrefix(strings.ToLower(obj.Name), "sqlite_") {
			continue
		}
		names = append(names, obj.Name)
	}
	return names
}

// ObjectsInOrder returns every stored schema object in schema-table order.
// The synthetic sqlite_schema object is not among them; the file stores no
// row for it.
func (c *Catalog) ObjectsInOrder() []*SchemaObject {
	out := make([]*SchemaObject, len(c.objects))
	copy(out, c.objects)
	return out
}
