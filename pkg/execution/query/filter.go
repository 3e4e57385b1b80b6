package query

import (
	"fmt"
)

// Filter passes through the rows of its source that satisfy a predicate.
// Rows that fail the predicate are consumed and dropped; errors from the
// source stop the filter immediately.
type Filter struct {
	base      *BaseIterator
	predicate *Predicate
	source    RowIterator
}

// NewFilter creates a filter applying predicate to every row of source.
func NewFilter(predicate *Predicate, source RowIterator) (*Filter, error) {
	if predicate == nil {
		return nil, fmt.Errorf("predicate cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("source operator cannot be nil")
	}

	f := &Filter{predicate: predicate, source: source}
	f.base = NewBaseIterator(f.readNext)
	return f, nil
}

func (f *Filter) readNext() (*Row, error) {
	for {
		row, err := fetchNext(f.source)
		if err != nil || row == nil {
			return row, err
		}
		if f.predicate.Matches(row) {
			return row, nil
		}
	}
}

// Open initializes the filter by opening its source.
func (f *Filter) Open() error {
	if err := f.source.Open(); err != nil {
		return err
	}
	f.base.MarkOpened()
	return nil
}

// HasNext reports whether another row satisfies the predicate.
func (f *Filter) HasNext() (bool, error) { return f.base.HasNext() }

// Next returns the next row that satisfies the predicate.
func (f *Filter) Next() (*Row, error) { return f.base.Next() }

// Rewind restarts the filter from the source's first row.
func (f *Filter) Rewind() error {
	if err := f.source.Rewind(); err != nil {
		return err
	}
	f.base.ClearCache()
	return nil
}

// Close closes the source. The filter can be reopened.
func (f *Filter) Close() error {
	if err := f.source.Close(); err != nil {
		return err
	}
	return f.base.Close()
}

// Columns names the output columns, unchanged from the source.
func (f *Filter) Columns() []string {
	return f.source.Columns()
}
