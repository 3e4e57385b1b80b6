package query

import (
	"fmt"

	"litequery/pkg/types"
)

// CountColumn is the output column name of a COUNT(*) aggregate.
const CountColumn = "count(*)"

// CountAll drains its source and yields a single row holding the number of
// rows the source produced. Rows are counted, never kept, so counting a
// large table stays flat in memory.
type CountAll struct {
	base   *BaseIterator
	source RowIterator
	done   bool
}

// NewCountAll creates a COUNT(*) aggregate over source.
func NewCountAll(source RowIterator) (*CountAll, error) {
	if source == nil {
		return nil, fmt.Errorf("source operator cannot be nil")
	}

	c := &CountAll{source: source}
	c.base = NewBaseIterator(c.readNext)
	return c, nil
}

func (c *CountAll) readNext() (*Row, error) {
	if c.done {
		return nil, nil
	}
	c.done = true

	var n int64
	for {
		row, err := fetchNext(c.source)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return &Row{Values: []types.Value{types.NewInteger(n)}}, nil
		}
		n++
	}
}

// Open initializes the aggregate by opening its source.
func (c *CountAll) Open() error {
	if err := c.source.Open(); err != nil {
		return err
	}
	c.done = false
	c.base.MarkOpened()
	return nil
}

// HasNext reports whether the count row is still pending.
func (c *CountAll) HasNext() (bool, error) { return c.base.HasNext() }

// Next drains the source and returns the single count row.
func (c *CountAll) Next() (*Row, error) { return c.base.Next() }

// Rewind restarts the aggregate, so the next row re-counts the source.
func (c *CountAll) Rewind() error {
	if err := c.source.Rewind(); err != nil {
		return err
	}
	c.done = false
	c.base.ClearCache()
	return nil
}

// Close closes the source. The aggregate can be reopened.
func (c *CountAll) Close() error {
	c.done = false
	if err := c.source.Close(); err != nil {
		return err
	}
	return c.base.Close()
}

// Columns returns the single aggregate column name.
func (c *CountAll) Columns() []string {
	return []string{CountColumn}
}
