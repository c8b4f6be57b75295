package table

import (
	"reflect"
	"testing"
)

func TestRow_SetPreservesInsertionOrder(t *testing.T) {
	// Contract:
	//   - The first Set of a column fixes its position.
	//   - A repeated Set overwrites the value without moving the column.
	r := NewRow()
	r.Set("b", 1)
	r.Set("a", 2)
	r.Set("b", 3)

	if got, want := r.Columns(), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if v, _ := r.Get("b"); v != 3 {
		t.Errorf("b = %v, want 3 after overwrite", v)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRow_GetAndHas_MissingColumn(t *testing.T) {
	r := NewRow()
	r.Set("a", nil)

	if !r.Has("a") {
		t.Error("Has(a) = false for a column set to nil")
	}
	if v, ok := r.Get("a"); !ok || v != nil {
		t.Errorf("Get(a) = (%v, %v), want (nil, true)", v, ok)
	}
	if _, ok := r.Get("b"); ok {
		t.Error("Get(b) reported a column that was never set")
	}
}

func rowOf(cols ...string) *Row {
	r := NewRow()
	for _, c := range cols {
		r.Set(c, c)
	}
	return r
}

func TestFirstSeenColumns_UnionInDiscoveryOrder(t *testing.T) {
	rows := []*Row{
		rowOf("id", "name"),
		rowOf("id", "email", "name"),
		rowOf("phone"),
	}
	got := FirstSeenColumns(rows)
	want := []string{"id", "name", "email", "phone"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FirstSeenColumns = %v, want %v", got, want)
	}
}

func TestSortedColumns_Lexicographic(t *testing.T) {
	rows := []*Row{
		rowOf("z", "m"),
		rowOf("a"),
	}
	got := SortedColumns(rows)
	want := []string{"a", "m", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedColumns = %v, want %v", got, want)
	}
}
