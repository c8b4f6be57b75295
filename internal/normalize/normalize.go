// Package normalize decomposes nested JSON records into multiple linked
// tables with surrogate primary keys and parent-pointing foreign keys.
//
// Key naming:
//   - The root table's primary key is "root_id"; every other table's is
//     "{singular(table)}_id".
//   - The foreign-key column of a child row reuses the immediate
//     parent's primary-key column name: "root_id" for first-level
//     children, "{singular(parent)}_id" deeper. One consistent rule.
//
// Invariants:
//   - Primary keys are unique within a table.
//   - Every non-root row's foreign key equals a primary key already
//     appended to the parent table (parent rows are emitted before
//     their children).
//   - Tables with zero rows never appear in the result.
package normalize

import (
	"sort"

	"json2csv/internal/entity"
	"json2csv/internal/table"
	"json2csv/pkg/records"
)

// Tables maps table name to its ordered row-set.
type Tables map[string][]*table.Row

// counters allocates monotonically increasing surrogate keys per table.
// One counters value is threaded through a whole run as an exclusively
// owned accumulator; it is never reset mid-run, so key assignment stays
// collision-free across all records.
type counters struct {
	next map[string]int64
}

func newCounters() *counters {
	return &counters{next: make(map[string]int64)}
}

func (c *counters) alloc(tableName string) int64 {
	c.next[tableName]++
	return c.next[tableName]
}

// Normalize walks each record against the inferred schema and emits one
// row-set per entity. All state (surrogate counters, accumulated
// tables) is scoped to this call.
func Normalize(recs []records.Record, sch entity.Schema, inf Inflector) Tables {
	w := &walker{
		schema:   sch,
		inflect:  inf,
		counters: newCounters(),
		tables:   Tables{},
	}
	for _, rec := range recs {
		w.writeObject(entity.RootName, sch.Root(), map[string]any(rec), "", nil)
	}
	return w.tables
}

type walker struct {
	schema   entity.Schema
	inflect  Inflector
	counters *counters
	tables   Tables
}

// writeObject emits one row for obj into tableName and recurses into
// its nested fields. fkCol/fkVal carry the parent's primary-key column
// and value; both are empty for the root table.
func (w *walker) writeObject(tableName string, ent *entity.Entity, obj map[string]any, fkCol string, fkVal any) {
	pkCol := w.primaryKeyColumn(tableName)
	pkVal := w.primaryKeyValue(tableName, obj)

	row := table.NewRow()
	row.Set(pkCol, pkVal)
	if fkCol != "" {
		row.Set(fkCol, fkVal)
	}

	for _, field := range w.scalarFields(ent, obj) {
		v, ok := obj[field]
		if !ok || !records.IsScalar(v) {
			continue
		}
		row.Set(field, v)
	}

	// Parent before children, so foreign keys always point at a primary
	// key that is already present in the parent table.
	w.tables[tableName] = append(w.tables[tableName], row)

	for _, key := range sortedKeys(obj) {
		switch t := obj[key].(type) {
		case map[string]any:
			if len(t) == 0 {
				continue
			}
			w.writeObject(key, w.schema[key], t, pkCol, pkVal)

		case []any:
			if len(t) == 0 {
				continue
			}
			childTable := w.inflect.Plural(key)
			for _, el := range t {
				if childObj, ok := el.(map[string]any); ok {
					if len(childObj) == 0 {
						continue
					}
					// Entities are registered under the original key by
					// extraction; the table name is the pluralized form.
					w.writeObject(childTable, w.schema[key], childObj, pkCol, pkVal)
					continue
				}
				w.writeScalarElement(childTable, el, pkCol, pkVal)
			}
		}
	}
}

// writeScalarElement emits one row for a scalar array element: its own
// surrogate key, the parent's foreign key, and a single value column
// named after the singular entity name.
func (w *walker) writeScalarElement(tableName string, v any, fkCol string, fkVal any) {
	singular := w.inflect.Singular(tableName)
	row := table.NewRow()
	row.Set(singular+"_id", w.counters.alloc(tableName))
	row.Set(fkCol, fkVal)
	row.Set(singular, v)
	w.tables[tableName] = append(w.tables[tableName], row)
}

func (w *walker) primaryKeyColumn(tableName string) string {
	if tableName == entity.RootName {
		return "root_id"
	}
	return w.inflect.Singular(tableName) + "_id"
}

// primaryKeyValue picks the surrogate key for one row. The root table
// always takes the running counter; other tables prefer the object's
// own scalar "id" field and fall back to their counter.
func (w *walker) primaryKeyValue(tableName string, obj map[string]any) any {
	if tableName != entity.RootName {
		if id, ok := obj["id"]; ok && records.IsScalar(id) && id != nil {
			return id
		}
	}
	return w.counters.alloc(tableName)
}

// scalarFields returns the ordered scalar columns for one row. Entities
// known to the schema use their inferred (sorted) field set; entities
// below the top level are not in the single-pass schema, so the
// object's own sorted scalar keys are used instead. "id" never appears
// as a scalar column: for non-root rows it is consumed as the primary
// key, for root the surrogate counter is authoritative.
func (w *walker) scalarFields(ent *entity.Entity, obj map[string]any) []string {
	var fields []string
	if ent != nil {
		fields = ent.Fields
	} else {
		for k, v := range obj {
			if records.IsScalar(v) {
				fields = append(fields, k)
			}
		}
		sort.Strings(fields)
	}

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "id" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
