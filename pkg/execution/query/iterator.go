// Package query holds the row operators a resolved plan is built from:
// sequential scan, index seek, filter, projection, and COUNT(*). Operators
// share one lifecycle: Open, HasNext/Next until exhausted, optionally Rewind,
// then Close. HasNext caches one row of lookahead, so operators implement a
// single readNext function and leave the ceremony to BaseIterator.
package query

import (
	"fmt"

	"litequery/pkg/types"
)

// Row is one row moving through the operators: decoded values in the
// table's declared column order, plus the rowid of the cell it came from.
type Row struct {
	Rowid  int64
	Values []types.Value
}

// RowIterator is the contract every operator implements.
type RowIterator interface {
	// Open prepares the operator. It must be called before HasNext, Next,
	// or Rewind.
	Open() error

	// HasNext reports whether another row is available, without consuming
	// it. Safe to call repeatedly.
	HasNext() (bool, error)

	// Next returns the next row and advances. Call HasNext first; Next on
	// an exhausted operator is an error.
	Next() (*Row, error)

	// Rewind restarts the operator from its first row.
	Rewind() error

	// Close releases the operator. A closed operator can be reopened.
	Close() error

	// Columns names the output columns, valid in any state.
	Columns() []string
}

// ReadNextFunc produces the operator's next row, or nil once exhausted.
type ReadNextFunc func() (*Row, error)

// BaseIterator supplies the HasNext/Next lookahead cache and the open state
// shared by every operator.
type BaseIterator struct {
	nextRow  *Row
	opened   bool
	readNext ReadNextFunc
}

// NewBaseIterator wires a base around the operator's readNext function. The
// iterator starts closed; the operator's Open must call MarkOpened.
func NewBaseIterator(readNext ReadNextFunc) *BaseIterator {
	return &BaseIterator{readNext: readNext}
}

// HasNext reports whether another row is available, caching it for Next.
func (it *BaseIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("iterator not opened")
	}
	if it.nextRow == nil {
		var err error
		it.nextRow, err = it.readNext()
		if err != nil {
			return false, err
		}
	}
	return it.nextRow != nil, nil
}

// Next returns the cached row or reads a fresh one.
func (it *BaseIterator) Next() (*Row, error) {
	if !it.opened {
		return nil, fmt.Errorf("iterator not opened")
	}
	if it.nextRow == nil {
		var err error
		it.nextRow, err = it.readNext()
		if err != nil {
			return nil, err
		}
		if it.nextRow == nil {
			return nil, fmt.Errorf("no more rows")
		}
	}
	row := it.nextRow
	it.nextRow = nil
	return row, nil
}

// MarkOpened flips the iterator into the opened state and drops any stale
// lookahead.
func (it *BaseIterator) MarkOpened() {
	it.opened = true
	it.nextRow = nil
}

// ClearCache drops the lookahead after the underlying source was rewound.
func (it *BaseIterator) ClearCache() {
	it.nextRow = nil
}

// Close marks the iterator closed and drops the lookahead.
func (it *BaseIterator) Close() error {
	it.nextRow = nil
	it.opened = false
	return nil
}

// Collect drains an opened iterator into a slice.
func Collect(it RowIterator) ([]*Row, error) {
	var rows []*Row
	for {
		hasNext, err := it.HasNext()
		if err != nil {
			return nil, err
		}
		if !hasNext {
			return rows, nil
		}
		row, err := it.Next()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
