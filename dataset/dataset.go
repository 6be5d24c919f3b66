package dataset

import (
	"errors"
	"fmt"
)

// Dataset is an immutable, column-oriented table. Every field is a
// float64 column of the same length. Rows are ordered and the dataset
// is never mutated after construction, so it is safe to share across
// goroutines.
type Dataset struct {
	fields  []string
	columns map[string][]float64
	rows    int
}

func New(fields []string, columns [][]float64) (*Dataset, error) {
	if len(fields) == 0 {
		return nil, errors.New("dataset: at least one field required")
	}
	if len(columns) != len(fields) {
		return nil, fmt.Errorf("dataset: %d fields but %d columns", len(fields), len(columns))
	}
	rows := len(columns[0])
	if rows == 0 {
		return nil, errors.New("dataset: at least one row required")
	}

	colMap := make(map[string][]float64, len(fields))
	for i, field := range fields {
		if _, dup := colMap[field]; dup {
			return nil, fmt.Errorf("dataset: duplicate field %q", field)
		}
		if len(columns[i]) != rows {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d",
				field, len(columns[i]), rows)
		}
		col := make([]float64, rows)
		copy(col, columns[i])
		colMap[field] = col
	}

	fieldsCopy := make([]string, len(fields))
	copy(fieldsCopy, fields)

	return &Dataset{
		fields:  fieldsCopy,
		columns: colMap,
		rows:    rows,
	}, nil
}

// FromColumn builds a single-field dataset.
func FromColumn(field string, values []float64) (*Dataset, error) {
	return New([]string{field}, [][]float64{values})
}

func (d *Dataset) Len() int {
	return d.rows
}

func (d *Dataset) Fields() []string {
	fields := make([]string, len(d.fields))
	copy(fields, d.fields)
	return fields
}

func (d *Dataset) HasField(field string) bool {
	_, ok := d.columns[field]
	return ok
}

// Value returns the value at (field, row). The bool is false for an
// unknown field.
func (d *Dataset) Value(field string, row int) (float64, bool) {
	col, ok := d.columns[field]
	if !ok {
		return 0, false
	}
	return col[row], true
}

// Column returns a copy of the named column.
func (d *Dataset) Column(field string) ([]float64, bool) {
	col, ok := d.columns[field]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}
