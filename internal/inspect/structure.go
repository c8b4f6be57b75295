// Package inspect builds a human-readable preview of the structure of a
// record sequence: which types each key takes and where nesting occurs.
// The CLI prints it in verbose mode; the conversion engine never
// depends on it.
package inspect

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"json2csv/pkg/records"
)

// FieldInfo describes everything observed for one key across the
// sampled records.
type FieldInfo struct {
	// Types holds the sorted set of JSON type names seen for the key
	// ("null", "bool", "number", "string", "array", "object").
	Types []string

	// Object is the nested structure when the key held an object.
	Object Structure

	// Items is the element structure when the key held an array of
	// objects.
	Items Structure

	typeSet map[string]struct{}
}

// Structure maps key name to its observed info.
type Structure map[string]*FieldInfo

// Detect analyzes the record sequence. It is best-effort and never
// fails: unexpected shapes just contribute their type name.
func Detect(recs []records.Record) Structure {
	s := Structure{}
	for _, rec := range recs {
		analyzeObject(map[string]any(rec), s)
	}
	s.finalize()
	return s
}

func analyzeObject(obj map[string]any, s Structure) {
	for k, v := range obj {
		info := s[k]
		if info == nil {
			info = &FieldInfo{typeSet: make(map[string]struct{})}
			s[k] = info
		}
		info.typeSet[typeName(v)] = struct{}{}

		switch t := v.(type) {
		case map[string]any:
			if info.Object == nil {
				info.Object = Structure{}
			}
			analyzeObject(t, info.Object)

		case []any:
			for _, el := range t {
				obj, ok := el.(map[string]any)
				if !ok {
					continue
				}
				if info.Items == nil {
					info.Items = Structure{}
				}
				analyzeObject(obj, info.Items)
			}
		}
	}
}

func (s Structure) finalize() {
	for _, info := range s {
		info.Types = info.Types[:0]
		for t := range info.typeSet {
			info.Types = append(info.Types, t)
		}
		sort.Strings(info.Types)

		if info.Object != nil {
			info.Object.finalize()
		}
		if info.Items != nil {
			info.Items.finalize()
		}
	}
}

// Render produces the deterministic text report shown in verbose mode.
func Render(s Structure) string {
	var b strings.Builder
	renderInto(&b, s, 0)
	return strings.TrimRight(b.String(), "\n")
}

func renderInto(b *strings.Builder, s Structure, depth int) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("  ", depth)
	for _, k := range keys {
		info := s[k]
		fmt.Fprintf(b, "%s- %s: %s\n", indent, k, strings.Join(info.Types, ", "))
		if info.Object != nil {
			renderInto(b, info.Object, depth+1)
		}
		if info.Items != nil {
			fmt.Fprintf(b, "%s  (array items)\n", indent)
			renderInto(b, info.Items, depth+1)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
