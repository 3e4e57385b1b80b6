// Package database is the facade over one open database file: it owns the
// page source, the catalog, and the planner, and answers both SQL queries
// and the dot commands. Queries are synchronous; a failed query leaves the
// database usable.
package database

import (
	"context"
	"sync"
	"time"

	"litequery/pkg/catalog"
	"litequery/pkg/logging"
	"litequery/pkg/parser"
	"litequery/pkg/planner"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
)

// Options tunes how a database is opened.
type Options struct {
	// CachePages sets the page cache capacity. Zero means the default
	// capacity; a negative value disables caching.
	CachePages int
}

// Database coordinates the components serving one database file.
type Database struct {
	src          *page.Source
	cat          *catalog.Catalog
	queryPlanner *planner.QueryPlanner
	formatter    *ResultFormatter
	path         string

	mutex sync.Mutex
	stats DatabaseStats
}

// DatabaseStats counts what the session has done so far.
type DatabaseStats struct {
	QueriesExecuted int64
	ErrorCount      int64
}

// QueryResult is one executed query or command, rendered for display.
type QueryResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
	Message  string
	Elapsed  time.Duration
}

// SchemaEntry is one object's DDL, as .schema lists it.
type SchemaEntry struct {
	Name string
	Kind catalog.ObjectKind
	SQL  string
}

// Open opens the file read-only and loads its catalog. Header and schema
// problems surface here, before any query runs.
func Open(path string, opts Options) (*Database, error) {
	cachePages := opts.CachePages
	if cachePages == 0 {
		cachePages = page.DefaultCachePages
	}

	src, err := page.OpenWithCache(path, cachePages)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(src)
	if err != nil {
		src.Close()
		return nil, err
	}

	db := &Database{
		src:          src,
		cat:          cat,
		queryPlanner: planner.NewQueryPlanner(src, cat),
		formatter:    NewResultFormatter(),
		path:         path,
	}
	logging.WithDatabase(path).Info("database opened",
		"page_size", src.PageSize(),
		"pages", src.PageCount(),
		"tables", len(cat.TablesInOrder()))
	return db, nil
}

// ExecuteQuery parses and runs one line of input, a SELECT or a dot command,
// and renders the outcome. Errors fail this query only.
func (db *Database) ExecuteQuery(input string) (QueryResult, error) {
	start := time.Now()

	stmt, err := parser.ParseStatement(input)
	if err != nil {
		db.recordError()
		return QueryResult{}, sqlerr.Wrap(err, sqlerr.CodeUnsupportedQuery, "ExecuteQuery", "Database")
	}

	var result QueryResult
	switch s := stmt.(type) {
	case *parser.CommandStatement:
		result, err = db.runCommand(s)
	default:
		result, err = db.runSelect(stmt)
	}
	if err != nil {
		db.recordError()
		return QueryResult{}, err
	}

	result.Elapsed = time.Since(start)
	db.recordSuccess()
	return result, nil
}

func (db *Database) runSelect(stmt parser.Statement) (QueryResult, error) {
	plan, err := db.queryPlanner.Plan(stmt)
	if err != nil {
		return QueryResult{}, err
	}
	res, err := plan.Execute()
	if err != nil {
		return QueryResult{}, err
	}
	return db.formatter.FormatSelect(res), nil
}

func (db *Database) runCommand(cmd *parser.CommandStatement) (QueryResult, error) {
	switch cmd.Command {
	case parser.CmdDBInfo:
		return db.formatter.FormatInfo(db.Info()), nil
	case parser.CmdTables:
		return db.formatter.FormatTables(db.Tables()), nil
	case parser.CmdSchema:
		entries, err := db.Schema(cmd.Arg)
		if err != nil {
			return QueryResult{}, err
		}
		return db.formatter.FormatSchema(entries), nil
	case parser.CmdIndexes:
		names, err := db.Indexes(cmd.Arg)
		if err != nil {
			return QueryResult{}, err
		}
		return db.formatter.FormatIndexes(names), nil
	case parser.CmdCheck:
		results, err := db.Check(context.Background())
		if err != nil {
			return QueryResult{}, err
		}
		return db.formatter.FormatCheck(results), nil
	default:
		return QueryResult{}, sqlerr.Newf(sqlerr.CodeUnsupportedQuery, "unknown command %s", cmd.Command)
	}
}

// Tables lists the user tables in catalog order. Internal sqlite_* tables
// are left out.
func (db *Database) Tables() []string {
	return db.cat.TablesInOrder()
}

// Schema returns the DDL of the named object, or of every stored object when
// name is empty. For a table, its indexes follow it. Objects whose schema
// row stores a NULL sql, such as automatic indexes, are left out.
func (db *Database) Schema(name string) ([]SchemaEntry, error) {
	if name == "" {
		var entries []SchemaEntry
		for _, obj := range db.cat.ObjectsInOrder() {
			if obj.SQL == "" {
				continue
			}
			entries = append(entries, SchemaEntry{Name: obj.Name, Kind: obj.Kind, SQL: obj.SQL})
		}
		return entries, nil
	}

	obj, err := db.cat.Object(name)
	if err != nil {
		return nil, err
	}
	entries := []SchemaEntry{{Name: obj.Name, Kind: obj.Kind, SQL: obj.SQL}}
	if obj.Kind == catalog.ObjectTable {
		indexes, err := db.cat.IndexesOn(obj.Name)
		if err != nil {
			return nil, err
		}
		for _, idx := range indexes {
			if idx.SQL == "" {
				continue
			}
			entries = append(entries, SchemaEntry{Name: idx.Name, Kind: idx.Kind, SQL: idx.SQL})
		}
	}
	return entries, nil
}

// Indexes lists index names, for one table or for the whole file when table
// is empty, in catalog order.
func (db *Database) Indexes(table string) ([]string, error) {
	if table != "" {
		indexes, err := db.cat.IndexesOn(table)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(indexes))
		for i, idx := range indexes {
			names[i] = idx.Name
		}
		return names, nil
	}

	var names []string
	for _, obj := range db.cat.ObjectsInOrder() {
		if obj.Kind == catalog.ObjectIndex {
			names = append(names, obj.Name)
		}
	}
	return names, nil
}

// Catalog exposes the loaded schema, read-only. The shell uses it to build
// its completion index.
func (db *Database) Catalog() *catalog.Catalog {
	return db.cat
}

// Path returns the file path the database was opened from.
func (db *Database) Path() string {
	return db.path
}

// Stats returns a snapshot of the session counters.
func (db *Database) Stats() DatabaseStats {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.stats
}

func (db *Database) recordError() {
	db.mutex.Lock()
	db.stats.ErrorCount++
	db.mutex.Unlock()
}

func (db *Database) recordSuccess() {
	db.mutex.Lock()
	db.stats.QueriesExecuted++
	db.mutex.Unlock()
}

// Close releases the underlying file. The database must not be used after.
func (db *Database) Close() error {
	logging.WithDatabase(db.path).Debug("database closed")
	return db.src.Close()
}
