// Package table provides the ordered row representation shared by the
// flattening engine, the normalization engine, and the CSV writer.
//
// Go maps do not preserve insertion order, but both conversion modes
// depend on column ordering: the normalization engine emits primary-key
// and foreign-key columns first, and the flattened header must be a
// deterministic union across rows. Row keeps an explicit column slice
// next to the value map so ordering survives from engine to writer.
package table

import "sort"

// Row is an insertion-ordered mapping from column name to value.
// Built fresh per record; never shared between records.
type Row struct {
	cols []string
	vals map[string]any
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{vals: make(map[string]any)}
}

// Set assigns a value to a column. The first Set of a column fixes its
// position; setting it again overwrites the value in place.
func (r *Row) Set(col string, v any) {
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Get returns the value for col and whether the column is present.
func (r *Row) Get(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Has reports whether the column is present in the row.
func (r *Row) Has(col string) bool {
	_, ok := r.vals[col]
	return ok
}

// Columns returns the column names in insertion order. The returned
// slice is owned by the row; callers must not mutate it.
func (r *Row) Columns() []string { return r.cols }

// Len returns the number of columns in the row.
func (r *Row) Len() int { return len(r.cols) }

// FirstSeenColumns returns the union of all row columns in first-seen
// order across the row sequence. The normalization engine relies on
// this to keep primary-key columns first in the header.
func FirstSeenColumns(rows []*Row) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		for _, c := range r.cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// SortedColumns returns the union of all row columns sorted
// lexicographically. Flattened mode uses this so the header does not
// depend on discovery order.
func SortedColumns(rows []*Row) []string {
	out := FirstSeenColumns(rows)
	sort.Strings(out)
	return out
}
