// Package writer serializes row-sets to CSV.
//
// Scalar values render in one canonical text form so output is
// byte-identical across runs: booleans as "True"/"False", null and
// absent columns as empty fields, numbers as their JSON literal text.
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"json2csv/internal/table"
)

// WriteError reports a destination that could not be created or
// written. Partial files are not guaranteed to be cleaned up.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// WriteTable serializes rows under the given header. Rows missing a
// header column render as empty fields.
func WriteTable(w io.Writer, header []string, rows []*table.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	out := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			v, ok := row.Get(col)
			if !ok {
				out[i] = ""
				continue
			}
			out[i] = Format(v)
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTableFile writes rows to path, creating parent directories as
// needed. An empty row-set produces no file at all.
func WriteTableFile(path string, header []string, rows []*table.Row) error {
	if len(rows) == 0 {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := WriteTable(f, header, rows); err != nil {
		_ = f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Format renders one scalar in its canonical text form.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return t
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
