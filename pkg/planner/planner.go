package planner

import (
	"litequery/pkg/catalog"
	"litequery/pkg/parser"
	"litequery/pkg/sqlerr"
	"litequery/pkg/storage/page"
)

// Plan is an executable query plan. Execute runs the pipeline to completion
// and materializes the full result.
type Plan interface {
	Execute() (*Result, error)
}

// QueryPlanner turns parsed statements into executable plans against one
// open database file.
type QueryPlanner struct {
	src *page.Source
	cat *catalog.Catalog
}

func NewQueryPlanner(src *page.Source, cat *catalog.Catalog) *QueryPlanner {
	return &QueryPlanner{
		src: src,
		cat: cat,
	}
}

// Plan builds a plan for stmt. Dot commands are not plannable; the database
// facade answers those directly.
func (qp *QueryPlanner) Plan(stmt parser.Statement) (Plan, error) {
	switch s := stmt.(type) {
	case *parser.SelectStatement:
		return NewSelectPlan(s, qp.src, qp.cat), nil
	default:
		return nil, sqlerr.Newf(sqlerr.CodeUnsupportedQuery, "statement %T cannot be planned", stmt)
	}
}
