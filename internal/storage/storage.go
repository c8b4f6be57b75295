// Package storage loads normalized table sets into a relational
// database after CSV output. Backends register themselves under a kind
// string; the CLI selects one by configuration.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"json2csv/internal/normalize"
	"json2csv/internal/table"
	"json2csv/internal/writer"
)

// Config selects and connects a storage backend.
type Config struct {
	Kind string
	DSN  string
}

// Sink is the minimal surface the normalized output needs: create the
// destination table if absent, append rows. Values arrive in their
// canonical text form, so every column has text affinity.
type Sink interface {
	// Close releases backend resources. Call once when done.
	Close()

	EnsureTable(ctx context.Context, tableName string, columns []string) error
	InsertRows(ctx context.Context, tableName string, columns []string, rows [][]any) error
}

type factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "sqlite"). Called
// from backend package init functions. Registering the same kind twice
// panics: failing fast beats ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Sink using the registered backend factory.
func New(ctx context.Context, cfg Config) (Sink, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("storage: unsupported kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}

// LoadTables writes every non-empty table into the sink, in sorted
// table order for deterministic runs. Cell values are rendered with the
// same canonical forms the CSV writer uses, so a database load and a
// CSV file of the same table always agree.
func LoadTables(ctx context.Context, s Sink, tables normalize.Tables) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rows := tables[name]
		if len(rows) == 0 {
			continue
		}
		header := table.FirstSeenColumns(rows)

		if err := s.EnsureTable(ctx, name, header); err != nil {
			return fmt.Errorf("ensure table %s: %w", name, err)
		}

		out := make([][]any, 0, len(rows))
		for _, r := range rows {
			cells := make([]any, len(header))
			for i, col := range header {
				v, ok := r.Get(col)
				if !ok {
					cells[i] = nil
					continue
				}
				cells[i] = writer.Format(v)
			}
			out = append(out, cells)
		}

		if err := s.InsertRows(ctx, name, header, out); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return nil
}
