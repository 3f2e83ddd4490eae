package dataset

import (
	"fmt"
	"math"
)

// Dataset holds one numeric column per raw sensor signal, all of equal length.
// Unparseable or absent cells are stored as NaN and left for the preprocessing
// pipeline's imputer to fill.
type Dataset struct {
	names   []string
	columns map[string][]float64
	rows    int
}

// New creates an empty dataset expecting columns of the given row count.
func New(rows int) *Dataset {
	return &Dataset{
		columns: make(map[string][]float64),
		rows:    rows,
	}
}

// AddColumn registers a named column. The column length must match the dataset
// row count.
func (d *Dataset) AddColumn(name string, values []float64) error {
	if len(values) != d.rows {
		return fmt.Errorf("column %s has %d rows, dataset has %d", name, len(values), d.rows)
	}
	if _, exists := d.columns[name]; exists {
		return fmt.Errorf("column %s already present", name)
	}
	d.names = append(d.names, name)
	d.columns[name] = values
	return nil
}

// Column returns the named column and whether it exists.
func (d *Dataset) Column(name string) ([]float64, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Columns returns the column names in insertion order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	return d.rows
}

// DropColumn removes a column if present.
func (d *Dataset) DropColumn(name string) {
	if _, ok := d.columns[name]; !ok {
		return
	}
	delete(d.columns, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
}

// IsMissing reports whether a cell value represents a missing observation.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
