package inspect

import (
	"encoding/json"
	"reflect"
	"testing"

	"json2csv/pkg/records"
)

func TestDetect_CollectsTypesPerKey(t *testing.T) {
	// The same key seen with different types across records accumulates
	// every type name, sorted.
	recs := []records.Record{
		{"a": json.Number("1"), "b": "x"},
		{"a": nil, "b": true},
	}

	s := Detect(recs)
	if got, want := s["a"].Types, []string{"null", "number"}; !reflect.DeepEqual(got, want) {
		t.Errorf("a types = %v, want %v", got, want)
	}
	if got, want := s["b"].Types, []string{"bool", "string"}; !reflect.DeepEqual(got, want) {
		t.Errorf("b types = %v, want %v", got, want)
	}
}

func TestDetect_NestedObjectAndArrayItems(t *testing.T) {
	recs := []records.Record{
		{
			"meta": map[string]any{"created": "x"},
			"tags": []any{
				map[string]any{"label": "t"},
				"stray",
			},
		},
	}

	s := Detect(recs)

	meta := s["meta"]
	if meta.Object == nil {
		t.Fatal("meta has no nested structure")
	}
	if got, want := meta.Object["created"].Types, []string{"string"}; !reflect.DeepEqual(got, want) {
		t.Errorf("meta.created types = %v, want %v", got, want)
	}

	tags := s["tags"]
	if tags.Items == nil {
		t.Fatal("tags has no item structure")
	}
	if got, want := tags.Items["label"].Types, []string{"string"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags items label types = %v, want %v", got, want)
	}
}

func TestRender_DeterministicReport(t *testing.T) {
	recs := []records.Record{
		{
			"name": "a",
			"meta": map[string]any{"created": "x"},
			"tags": []any{map[string]any{"label": "t"}},
		},
	}

	want := "- meta: object\n" +
		"  - created: string\n" +
		"- name: string\n" +
		"- tags: array\n" +
		"  (array items)\n" +
		"  - label: string"

	for i := 0; i < 10; i++ {
		if got := Render(Detect(recs)); got != want {
			t.Fatalf("run %d:\ngot:\n%s\nwant:\n%s", i, got, want)
		}
	}
}
