package events

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
)

// Table is an immutable-by-convention columnar table of float64 event fields.
// Every operation that changes rows or columns returns a new Table.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]float64 // data[c][r]
}

// NewTable returns an empty table with the given columns. Duplicate names are
// rejected.
func NewTable(columns ...string) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, len(columns)),
	}
	for i, name := range columns {
		if _, dup := t.index[name]; dup {
			return nil, errors.Schema(nil, "duplicate column %q", name)
		}
		t.index[name] = i
	}
	return t, nil
}

// FromColumns builds a table from named column slices, which must all have the
// same length. The slices are copied.
func FromColumns(columns []string, values [][]float64) (*Table, error) {
	if len(columns) != len(values) {
		return nil, errors.Schema(nil, "%d column names for %d columns", len(columns), len(values))
	}
	t, err := NewTable(columns...)
	if err != nil {
		return nil, err
	}
	for i, col := range values {
		if i > 0 && len(col) != len(values[0]) {
			return nil, errors.Schema(nil, "column %q has %d rows, expected %d", columns[i], len(col), len(values[0]))
		}
		t.data[i] = append([]float64(nil), col...)
	}
	return t, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.data) == 0 {
		return 0
	}
	return len(t.data[0])
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of the named column. The returned slice is shared
// with the table and must not be modified.
func (t *Table) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Schema(nil, "column %q not in table %v", name, t.columns)
	}
	return t.data[i], nil
}

// AppendRow adds a row given in column order.
func (t *Table) AppendRow(row []float64) error {
	if len(row) != len(t.columns) {
		return errors.Schema(nil, "row has %d values, table has %d columns", len(row), len(t.columns))
	}
	for i, v := range row {
		t.data[i] = append(t.data[i], v)
	}
	return nil
}

// Row returns a copy of row r in column order.
func (t *Table) Row(r int) []float64 {
	row := make([]float64, len(t.columns))
	for i := range t.columns {
		row[i] = t.data[i][r]
	}
	return row
}

// Filter returns the rows for which keep returns true, in their original order.
func (t *Table) Filter(keep func(r int) bool) *Table {
	out, _ := NewTable(t.columns...)
	for r := 0; r < t.Len(); r++ {
		if !keep(r) {
			continue
		}
		for c := range t.columns {
			out.data[c] = append(out.data[c], t.data[c][r])
		}
	}
	return out
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	values := make([][]float64, len(names))
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		values[i] = col
	}
	return FromColumns(names, values)
}

// WithColumn returns a table with an extra column appended at the end.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if t.Has(name) {
		return nil, errors.Schema(nil, "column %q already exists", name)
	}
	if len(t.columns) > 0 && len(values) != t.Len() {
		return nil, errors.Schema(nil, "column %q has %d rows, table has %d", name, len(values), t.Len())
	}
	columns := append(t.Columns(), name)
	data := append(append([][]float64(nil), t.data...), values)
	return FromColumns(columns, data)
}

// Constant returns a column of n copies of v.
func Constant(n int, v float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = v
	}
	return col
}

// Concat stacks tables with identical columns, preserving the order of the
// arguments and of the rows within each.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return NewTable()
	}
	out, err := NewTable(tables[0].columns...)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if len(t.columns) != len(out.columns) {
			return nil, errors.Schema(nil, "cannot concatenate %v with %v", t.columns, out.columns)
		}
		for c, name := range out.columns {
			col, err := t.Column(name)
			if err != nil {
				return nil, err
			}
			out.data[c] = append(out.data[c], col...)
		}
	}
	return out, nil
}

// Matrix returns the named columns as a row-major matrix.
func (t *Table) Matrix(names ...string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for i, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	out := make([][]float64, t.Len())
	for r := range out {
		row := make([]float64, len(names))
		for c := range cols {
			row[c] = cols[c][r]
		}
		out[r] = row
	}
	return out, nil
}
