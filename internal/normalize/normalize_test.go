package normalize

import (
	"reflect"
	"strings"
	"testing"

	"json2csv/internal/entity"
	"json2csv/internal/table"
	"json2csv/pkg/records"
)

// stubInflector applies regular English rules only, keeping tests
// independent of the production inflection library.
type stubInflector struct{}

func (stubInflector) Singular(s string) string { return strings.TrimSuffix(s, "s") }
func (stubInflector) Plural(s string) string {
	if strings.HasSuffix(s, "s") {
		return s
	}
	return s + "s"
}

func normalizeRecs(recs []records.Record) Tables {
	return Normalize(recs, entity.Extract(recs), stubInflector{})
}

func cellValues(rows []*table.Row, col string) []any {
	var out []any
	for _, r := range rows {
		v, _ := r.Get(col)
		out = append(out, v)
	}
	return out
}

func TestNormalize_SplitsIntoLinkedTables(t *testing.T) {
	// Contract:
	//   - Each record emits one root row keyed by a fresh "root_id".
	//   - A one-to-many array key becomes its own (pluralized) table; each
	//     element row carries the parent's "root_id".
	//   - A one-to-one object key becomes its own table under the key name.
	//   - "id" never appears as a scalar column.
	//   - Empty objects and arrays emit nothing.
	recs := []records.Record{
		{
			"id":   10,
			"name": "a",
			"tags": []any{
				map[string]any{"tag": "x"},
				map[string]any{"tag": "y"},
			},
			"meta": map[string]any{"a": true},
		},
		{
			"id":   11,
			"name": "b",
			"tags": []any{},
			"meta": map[string]any{},
		},
	}

	tables := normalizeRecs(recs)

	if got, want := len(tables), 3; got != want {
		t.Fatalf("got %d tables (%v), want %d", got, tableNames(tables), want)
	}

	root := tables["root"]
	if got, want := cellValues(root, "root_id"), []any{int64(1), int64(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("root_id column = %v, want %v", got, want)
	}
	if got, want := cellValues(root, "name"), []any{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("name column = %v, want %v", got, want)
	}
	for _, r := range root {
		if r.Has("id") {
			t.Error("root row carries an \"id\" column")
		}
	}

	tags := tables["tags"]
	if len(tags) != 2 {
		t.Fatalf("tags has %d rows, want 2", len(tags))
	}
	if got, want := cellValues(tags, "tag_id"), []any{int64(1), int64(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("tag_id column = %v, want %v", got, want)
	}
	if got, want := cellValues(tags, "root_id"), []any{int64(1), int64(1)}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags root_id column = %v, want %v", got, want)
	}
	if got, want := cellValues(tags, "tag"), []any{"x", "y"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tag column = %v, want %v", got, want)
	}

	meta := tables["meta"]
	if len(meta) != 1 {
		t.Fatalf("meta has %d rows, want 1", len(meta))
	}
	if got, _ := meta[0].Get("meta_id"); got != int64(1) {
		t.Errorf("meta_id = %v, want 1", got)
	}
	if got, _ := meta[0].Get("root_id"); got != int64(1) {
		t.Errorf("meta root_id = %v, want 1", got)
	}
	if got, _ := meta[0].Get("a"); got != true {
		t.Errorf("a = %v, want true", got)
	}
}

func TestNormalize_ChildPrefersOwnScalarID(t *testing.T) {
	// Non-root rows with a scalar "id" field use it as the primary key;
	// rows without one fall back to the table counter.
	recs := []records.Record{
		{"items": []any{
			map[string]any{"id": "sku-9", "qty": 1},
			map[string]any{"qty": 2},
		}},
	}

	tables := normalizeRecs(recs)
	items := tables["items"]
	if len(items) != 2 {
		t.Fatalf("items has %d rows, want 2", len(items))
	}
	if got, _ := items[0].Get("item_id"); got != "sku-9" {
		t.Errorf("first item_id = %v, want sku-9", got)
	}
	if got, _ := items[1].Get("item_id"); got != int64(1) {
		t.Errorf("second item_id = %v, want counter value 1", got)
	}
}

func TestNormalize_DeepNesting_ForeignKeyNamesFollowParent(t *testing.T) {
	// A child two levels down points at its immediate parent, not at the
	// root: the FK column reuses the parent table's primary-key column.
	recs := []records.Record{
		{"meta": map[string]any{
			"kind": "m",
			"geo":  map[string]any{"lat": 1},
		}},
	}

	tables := normalizeRecs(recs)

	geo := tables["geo"]
	if len(geo) != 1 {
		t.Fatalf("geo has %d rows, want 1", len(geo))
	}
	metaPK, _ := tables["meta"][0].Get("meta_id")
	fk, ok := geo[0].Get("meta_id")
	if !ok {
		t.Fatalf("geo row has no meta_id column: %v", geo[0].Columns())
	}
	if fk != metaPK {
		t.Errorf("geo meta_id = %v, want parent's %v", fk, metaPK)
	}
}

func TestNormalize_ScalarArrayElements(t *testing.T) {
	// Scalar elements of a top-level array each get a row with a
	// surrogate key, the parent FK, and one value column named after the
	// singular form.
	recs := []records.Record{
		{"colors": []any{"red", "blue"}},
	}

	tables := normalizeRecs(recs)
	colors := tables["colors"]
	if len(colors) != 2 {
		t.Fatalf("colors has %d rows, want 2", len(colors))
	}
	if got, want := cellValues(colors, "color"), []any{"red", "blue"}; !reflect.DeepEqual(got, want) {
		t.Errorf("color column = %v, want %v", got, want)
	}
	if got, want := cellValues(colors, "color_id"), []any{int64(1), int64(2)}; !reflect.DeepEqual(got, want) {
		t.Errorf("color_id column = %v, want %v", got, want)
	}
	if got, want := cellValues(colors, "root_id"), []any{int64(1), int64(1)}; !reflect.DeepEqual(got, want) {
		t.Errorf("colors root_id column = %v, want %v", got, want)
	}
}

func TestNormalize_ReferentialIntegrity(t *testing.T) {
	// Every child FK must equal a PK already emitted into the parent
	// table, across multiple records.
	recs := []records.Record{
		{"name": "a", "tags": []any{map[string]any{"tag": "x"}}},
		{"name": "b", "tags": []any{map[string]any{"tag": "y"}, map[string]any{"tag": "z"}}},
	}

	tables := normalizeRecs(recs)

	rootPKs := make(map[any]bool)
	for _, v := range cellValues(tables["root"], "root_id") {
		if rootPKs[v] {
			t.Errorf("duplicate root_id %v", v)
		}
		rootPKs[v] = true
	}

	for _, fk := range cellValues(tables["tags"], "root_id") {
		if !rootPKs[fk] {
			t.Errorf("tags row points at unknown root_id %v", fk)
		}
	}
}

func TestNormalize_HeaderOrder_KeysFirst(t *testing.T) {
	// The first-seen column order of a child table starts with its
	// primary key, then the foreign key, then data columns.
	recs := []records.Record{
		{"tags": []any{map[string]any{"tag": "x", "alpha": 1}}},
	}

	tables := normalizeRecs(recs)
	got := table.FirstSeenColumns(tables["tags"])
	want := []string{"tag_id", "root_id", "alpha", "tag"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tags header = %v, want %v", got, want)
	}
}

func tableNames(tables Tables) []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	return names
}
