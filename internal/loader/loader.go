// Package loader parses raw JSON text into an ordered sequence of
// records.
//
// Contract:
//   - A single root object is wrapped as a one-element sequence.
//   - A root array is used directly; every element must be an object.
//   - Malformed JSON surfaces as *ParseError; a well-formed root that is
//     neither an object nor an array of objects surfaces as *SchemaError.
//
// The loader performs no disk I/O beyond reading the given resource;
// resolving and validating the path is the caller's responsibility.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"json2csv/pkg/records"
)

// ParseError reports input that is not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse json: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a well-formed root value of the wrong shape.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string { return e.Msg }

// Load decodes JSON from r into a record sequence.
//
// Numbers decode as json.Number so their literal text survives to
// serialization. A leading UTF-8/UTF-16 BOM is tolerated; the stream is
// otherwise treated as UTF-8.
func Load(r io.Reader) ([]records.Record, error) {
	// BOMOverride keeps plain UTF-8 untouched and only switches decoders
	// when a BOM is actually present.
	bomAware := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	dec := json.NewDecoder(bomAware)
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Err: err}
	}

	switch v := root.(type) {
	case map[string]any:
		return []records.Record{records.Record(v)}, nil

	case []any:
		out := make([]records.Record, 0, len(v))
		for i, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, &SchemaError{Msg: fmt.Sprintf(
					"top-level JSON must be an object or array of objects (element %d is %s)",
					i, jsonTypeName(el),
				)}
			}
			out = append(out, records.Record(obj))
		}
		return out, nil

	default:
		return nil, &SchemaError{Msg: fmt.Sprintf(
			"top-level JSON must be an object or array of objects (got %s)",
			jsonTypeName(root),
		)}
	}
}

// LoadFile opens path and loads its content.
//
// A missing or unreadable file surfaces as the underlying *os.PathError;
// path policy checks belong to the CLI layer, not here.
func LoadFile(path string) ([]records.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "an array"
	case map[string]any:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
