package query

import (
	"fmt"

	"litequery/pkg/types"
)

// Predicate compares one column of a row against a constant. The grammar
// only admits equality, so the operation is fixed and only the column
// position and the operand vary.
type Predicate struct {
	column  int         // position in the row's declared column order
	operand types.Value // the literal to match
}

// NewPredicate builds a predicate over the column at the given position.
func NewPredicate(column int, operand types.Value) *Predicate {
	if operand == nil {
		operand = types.Null
	}
	return &Predicate{column: column, operand: operand}
}

// Matches reports whether the row passes the predicate. Comparison follows
// WHERE semantics: NULL matches nothing, integers and floats match
// numerically, text and blobs match bytewise, and values of different
// storage classes never match. A row too short to hold the column reads as
// NULL there and never matches.
func (p *Predicate) Matches(row *Row) bool {
	if p.column < 0 || p.column >= len(row.Values) {
		return false
	}
	return types.Equal(row.Values[p.column], p.operand)
}

// Column returns the position the predicate evaluates.
func (p *Predicate) Column() int {
	return p.column
}

// Value returns the constant operand.
func (p *Predicate) Value() types.Value {
	return p.operand
}

func (p *Predicate) String() string {
	return fmt.Sprintf("column[%d] = %s", p.column, p.operand)
}
