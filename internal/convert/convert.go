// Package convert orchestrates one conversion run: read input, produce
// table(s), write output.
//
// Error taxonomy (all terminal for the current run, no retries):
//   - *loader.ParseError: input is not well-formed JSON
//   - *loader.SchemaError: top-level JSON has the wrong shape
//   - *pathguard.PathError: caller-supplied path failed validation
//     (CLI layer's domain; never produced here)
//   - *writer.WriteError: destination not writable
//
// The engine performs no logging of its own; reporting belongs to the
// caller.
package convert

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"json2csv/internal/entity"
	"json2csv/internal/flatten"
	"json2csv/internal/loader"
	"json2csv/internal/normalize"
	"json2csv/internal/table"
	"json2csv/internal/writer"
	"json2csv/pkg/records"
)

// Mode selects the conversion strategy.
type Mode string

const (
	ModeFlattened  Mode = "flattened"
	ModeNormalized Mode = "normalized"
)

// DefaultSeparator joins path fragments in flattened column names.
const DefaultSeparator = "/"

// Options configures one conversion run.
type Options struct {
	Mode      Mode
	Separator string

	// Inflector overrides the naming strategy for normalized mode.
	// Nil selects the production English inflector.
	Inflector normalize.Inflector
}

func (o Options) separator() string {
	if o.Separator == "" {
		return DefaultSeparator
	}
	return o.Separator
}

func (o Options) inflector() normalize.Inflector {
	if o.Inflector != nil {
		return o.Inflector
	}
	return normalize.NewInflector()
}

// Convert reads the JSON resource at inputPath and writes CSV output
// according to opts. In flattened mode outputPath names a single CSV
// file; in normalized mode it names a directory (a path carrying a file
// extension is converted to a sibling directory named after its stem).
//
// Returns the normalized table set for callers that post-process it
// (e.g. database loading); flattened mode returns nil tables.
func Convert(inputPath, outputPath string, opts Options) (normalize.Tables, error) {
	recs, err := loader.LoadFile(inputPath)
	if err != nil {
		return nil, err
	}

	switch opts.Mode {
	case ModeFlattened:
		return nil, Flattened(recs, outputPath, opts.separator())
	case ModeNormalized:
		return Normalized(recs, NormalizedDir(outputPath), opts.inflector())
	default:
		return nil, fmt.Errorf("invalid mode %q: choose either %q or %q", opts.Mode, ModeFlattened, ModeNormalized)
	}
}

// Flattened writes all records as one CSV with separator-joined column
// names. The header is the sorted union of every row's keys.
func Flattened(recs []records.Record, outPath, sep string) error {
	rows := flatten.FlattenAll(recs, sep)
	return writer.WriteTableFile(outPath, flatten.Columns(rows), rows)
}

// Normalized extracts the schema, normalizes the records into linked
// tables, and writes one "{table}.csv" per non-empty table under
// outDir. The per-table header is the first-seen column union, which
// keeps primary keys first.
func Normalized(recs []records.Record, outDir string, inf normalize.Inflector) (normalize.Tables, error) {
	sch := entity.Extract(recs)
	tables := normalize.Normalize(recs, sch, inf)

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rows := tables[name]
		path := filepath.Join(outDir, name+".csv")
		if err := writer.WriteTableFile(path, table.FirstSeenColumns(rows), rows); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// NormalizedDir resolves the output directory for normalized mode. A
// path with a file extension (e.g. "out/data.csv") becomes a sibling
// directory named after the stem ("out/data").
func NormalizedDir(outputPath string) string {
	ext := filepath.Ext(outputPath)
	if ext == "" {
		return outputPath
	}
	return strings.TrimSuffix(outputPath, ext)
}
