package query

import (
	"fmt"

	"litequery/pkg/types"
)

// Project narrows each source row to the requested columns, in the requested
// order. It is the SELECT column list: positions index into the source's
// declared column order, and the same position may appear more than once.
type Project struct {
	base      *BaseIterator
	positions []int
	names     []string
	source    RowIterator
}

// NewProject creates a projection of source onto the columns at positions,
// labelled names. Positions are validated against the source's column count
// once, here, so readNext can index rows directly.
func NewProject(positions []int, names []string, source RowIterator) (*Project, error) {
	if source == nil {
		return nil, fmt.Errorf("source operator cannot be nil")
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("must project at least one column")
	}
	if len(positions) != len(names) {
		return nil, fmt.Errorf("position list length (%d) must match name list length (%d)",
			len(positions), len(names))
	}
	width := len(source.Columns())
	for _, pos := range positions {
		if pos < 0 || pos >= width {
			return nil, fmt.Errorf("column position %d out of bounds (source has %d columns)", pos, width)
		}
	}

	p := &Project{positions: positions, names: names, source: source}
	p.base = NewBaseIterator(p.readNext)
	return p, nil
}

func (p *Project) readNext() (*Row, error) {
	row, err := fetchNext(p.source)
	if err != nil || row == nil {
		return row, err
	}

	values := make([]types.Value, len(p.positions))
	for i, pos := range p.positions {
		values[i] = row.Values[pos]
	}
	return &Row{Rowid: row.Rowid, Values: values}, nil
}

// Open initializes the projection by opening its source.
func (p *Project) Open() error {
	if err := p.source.Open(); err != nil {
		return err
	}
	p.base.MarkOpened()
	return nil
}

// HasNext reports whether another row is available.
func (p *Project) HasNext() (bool, error) { return p.base.HasNext() }

// Next returns the next projected row.
func (p *Project) Next() (*Row, error) { return p.base.Next() }

// Rewind restarts the projection from the source's first row.
func (p *Project) Rewind() error {
	if err := p.source.Rewind(); err != nil {
		return err
	}
	p.base.ClearCache()
	return nil
}

// Close closes the source. The projection can be reopened.
func (p *Project) Close() error {
	if err := p.source.Close(); err != nil {
		return err
	}
	return p.base.Close()
}

// Columns returns the projected column names.
func (p *Project) Columns() []string {
	return p.names
}
