// Package domain defines core types, interfaces, and errors for duckgs.
package domain

import "strconv"

// Result is a two-dimensional tabular query result: named columns and
// row-major values. It is the unit of exchange between the executor, the
// cache, and the post-processing chain.
type Result struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// RowCount returns the number of rows in the result.
func (r *Result) RowCount() int {
	return len(r.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (r *Result) ColumnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column in row order.
func (r *Result) Column(name string) ([]interface{}, error) {
	idx := r.ColumnIndex(name)
	if idx < 0 {
		return nil, ErrValidation("unknown column %q", name)
	}
	out := make([]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, nil)
		}
	}
	return out, nil
}

// Project returns a new Result containing only the named columns, in the
// order given.
func (r *Result) Project(names []string) (*Result, error) {
	indices := make([]int, 0, len(names))
	for _, name := range names {
		idx := r.ColumnIndex(name)
		if idx < 0 {
			return nil, ErrValidation("unknown column %q", name)
		}
		indices = append(indices, idx)
	}

	out := &Result{
		Columns: append([]string(nil), names...),
		Rows:    make([][]interface{}, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		projected := make([]interface{}, len(indices))
		for i, idx := range indices {
			if idx < len(row) {
				projected[i] = row[idx]
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}

// Head returns a new Result limited to the first n rows. Negative n yields
// an empty result; n beyond the row count is clamped.
func (r *Result) Head(n int) *Result {
	if n < 0 {
		n = 0
	}
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return &Result{
		Columns: append([]string(nil), r.Columns...),
		Rows:    append([][]interface{}(nil), r.Rows[:n]...),
	}
}

// Transpose returns the result flipped: one row per original column, with a
// leading "column" field naming it. Mirrors the usual df.T inspection trick
// for wide single-row results.
func (r *Result) Transpose() *Result {
	out := &Result{Columns: []string{"column"}}
	for i := 0; i < len(r.Rows); i++ {
		out.Columns = append(out.Columns, "row_"+strconv.Itoa(i))
	}
	for ci, name := range r.Columns {
		row := make([]interface{}, 0, len(r.Rows)+1)
		row = append(row, name)
		for _, src := range r.Rows {
			if ci < len(src) {
				row = append(row, src[ci])
			} else {
				row = append(row, nil)
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
