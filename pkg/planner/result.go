package planner

import (
	"fmt"

	"litequery/pkg/types"
)

// Result is the materialized outcome of a SELECT: the output column names
// and one value slice per row, rows in storage order.
type Result struct {
	Columns []string
	Rows    [][]types.Value
}

func (r *Result) String() string {
	return fmt.Sprintf("Query returned %d row(s)", len(r.Rows))
}
