// Package flatten collapses nested JSON records into single-level rows
// with compound, separator-joined column names.
package flatten

import (
	"sort"
	"strconv"

	"json2csv/internal/table"
	"json2csv/pkg/records"
)

// Flatten converts one record into a flat row.
//
// Walk rules (depth-first):
//   - object value at path p: recurse into each key k at p+sep+k
//     (just k when p is empty)
//   - array value at path p: recurse into each element i at p+sep+i
//   - scalar (including null) at path p: assign FlatRow[p] = value,
//     type preserved until serialization
//
// Empty objects and arrays produce no column at all; absence, not a
// placeholder. Object keys are visited in sorted order, so identical
// input and separator always yield an identical row.
func Flatten(rec records.Record, sep string) *table.Row {
	row := table.NewRow()
	flattenObject("", map[string]any(rec), sep, row)
	return row
}

// Columns returns the ordered column universe for a batch of flattened
// rows: the union of every row's keys, sorted lexicographically so the
// header is independent of discovery order. Rows missing a column
// render empty in that column.
func Columns(rows []*table.Row) []string {
	return table.SortedColumns(rows)
}

// FlattenAll flattens every record in input order.
func FlattenAll(recs []records.Record, sep string) []*table.Row {
	out := make([]*table.Row, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Flatten(rec, sep))
	}
	return out
}

func flattenObject(prefix string, obj map[string]any, sep string, row *table.Row) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		flattenValue(joinPath(prefix, k, sep), obj[k], sep, row)
	}
}

func flattenValue(path string, v any, sep string, row *table.Row) {
	switch t := v.(type) {
	case map[string]any:
		flattenObject(path, t, sep, row)

	case []any:
		for i, el := range t {
			flattenValue(joinPath(path, strconv.Itoa(i), sep), el, sep, row)
		}

	default:
		// Scalar, including nil.
		row.Set(path, t)
	}
}

func joinPath(prefix, fragment, sep string) string {
	if prefix == "" {
		return fragment
	}
	return prefix + sep + fragment
}
