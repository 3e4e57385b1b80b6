package planner

import (
	"errors"
	"strings"

	"litequery/pkg/catalog"
	"litequery/pkg/execution/query"
	"litequery/pkg/logging"
	"litequery/pkg/parser"
	"litequery/pkg/storage/page"
)

// SelectPlan executes one parsed SELECT against the catalog and page source.
type SelectPlan struct {
	src       *page.Source
	cat       *catalog.Catalog
	statement *parser.SelectStatement
}

func NewSelectPlan(stmt *parser.SelectStatement, src *page.Source, cat *catalog.Catalog) *SelectPlan {
	return &SelectPlan{
		src:       src,
		cat:       cat,
		statement: stmt,
	}
}

// Execute resolves the table, picks an access path, stacks the filter,
// projection, and count operators the statement asks for, and drains the
// pipeline into a Result.
func (p *SelectPlan) Execute() (*Result, error) {
	table, err := resolveTable(p.cat, p.statement.Table)
	if err != nil {
		return nil, err
	}

	// COUNT(*) with no WHERE is answered from cell counts alone, without
	// decoding a single payload.
	if p.statement.CountAll && p.statement.Where == nil {
		logging.WithTable(table.Name).Debug("access path chosen", "path", "fast-count")
		return fastCount(p.src, table)
	}

	input, usedIndex, err := p.buildAccessPath(table)
	if err != nil {
		return nil, err
	}
	top, err := p.buildPipeline(input, table)
	if err != nil {
		return nil, err
	}

	result, err := collectResult(top)
	if err == nil || !usedIndex || !errors.Is(err, query.ErrUnresolvedRowid) {
		return result, err
	}

	// The index carried a rowid the table does not have. Scanning answers
	// from table rows alone, so replan without the index.
	logging.WithTable(table.Name).Debug("index seek hit an unresolved rowid, rescanning",
		"query", p.statement.String())
	scan, err := p.scanWithFilter(table)
	if err != nil {
		return nil, err
	}
	top, err = p.buildPipeline(scan, table)
	if err != nil {
		return nil, err
	}
	return collectResult(top)
}

// buildAccessPath picks how table rows are produced: a direct rowid probe
// when the predicate pins the rowid-alias column to an exact integer, an
// index seek when a usable single-column index covers the predicate column,
// and a sequential scan with a filter otherwise. The second return value
// reports whether the index path was taken.
func (p *SelectPlan) buildAccessPath(table *catalog.SchemaObject) (query.RowIterator, bool, error) {
	where := p.statement.Where
	if where == nil {
		ss, err := query.NewSeqScan(p.src, table)
		return ss, false, err
	}

	colIdx, ok := table.ColumnIndex(where.Column)
	if !ok {
		return nil, false, errNoSuchColumn(table, where.Column)
	}

	if colIdx == table.RowidAlias {
		if rowid, exact := rowidLiteral(where.Value); exact {
			logging.WithTable(table.Name).Debug("access path chosen", "path", "rowid-seek", "rowid", rowid)
			rs, err := query.NewRowidSeek(p.src, table, rowid)
			return rs, false, err
		}
	}

	if idx := p.equalityIndex(table, where.Column); idx != nil {
		logging.WithTable(table.Name).Debug("access path chosen", "path", "index-seek", "index", idx.Name)
		is, err := query.NewIndexSeek(p.src, table, idx, where.Value)
		return is, true, err
	}

	logging.WithTable(table.Name).Debug("access path chosen", "path", "scan")
	it, err := p.scanWithFilter(table)
	return it, false, err
}

// equalityIndex finds an index on table whose single key column matches the
// predicate column. Indexes without a tree of their own cannot serve seeks.
func (p *SelectPlan) equalityIndex(table *catalog.SchemaObject, column string) *catalog.SchemaObject {
	indexes, err := p.cat.IndexesOn(table.Name)
	if err != nil {
		return nil
	}
	for _, idx := range indexes {
		if idx.RootPage != 0 && idx.IndexColumn != "" && strings.EqualFold(idx.IndexColumn, column) {
			return idx
		}
	}
	return nil
}

// scanWithFilter builds the fallback pipeline bottom: a sequential scan,
// filtered when the statement has a WHERE clause.
func (p *SelectPlan) scanWithFilter(table *catalog.SchemaObject) (query.RowIterator, error) {
	ss, err := query.NewSeqScan(p.src, table)
	if err != nil {
		return nil, err
	}
	where := p.statement.Where
	if where == nil {
		return ss, nil
	}
	colIdx, ok := table.ColumnIndex(where.Column)
	if !ok {
		return nil, errNoSuchColumn(table, where.Column)
	}
	return query.NewFilter(query.NewPredicate(colIdx, where.Value), ss)
}

// buildPipeline stacks the statement's output shape on top of the access
// path: a count, the bare input for SELECT *, or a projection.
func (p *SelectPlan) buildPipeline(input query.RowIterator, table *catalog.SchemaObject) (query.RowIterator, error) {
	if p.statement.CountAll {
		return query.NewCountAll(input)
	}
	if p.statement.Star {
		return input, nil
	}

	positions := make([]int, 0, len(p.statement.Columns))
	names := make([]string, 0, len(p.statement.Columns))
	for _, col := range p.statement.Columns {
		idx, ok := table.ColumnIndex(col)
		if !ok {
			return nil, errNoSuchColumn(table, col)
		}
		positions = append(positions, idx)
		names = append(names, table.Columns[idx])
	}
	return query.NewProject(positions, names, input)
}
