// Package sqlite implements storage.Sink for SQLite via the pure-Go
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"json2csv/internal/storage"
)

// Sink writes tables into a SQLite database. All columns get TEXT
// affinity; values arrive pre-rendered in canonical text form.
type Sink struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Sink{db: db}, nil
}

func (s *Sink) Close() { _ = s.db.Close() }

func (s *Sink) EnsureTable(ctx context.Context, table string, columns []string) error {
	_, err := s.db.ExecContext(ctx, buildCreateTableSQL(table, columns))
	return err
}

// InsertRows appends rows in bounded multi-row statements. SQLite caps
// bound parameters per statement, so batches are sized to stay under
// the limit regardless of column count.
func (s *Sink) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	batch := maxBindParams / len(columns)
	if batch < 1 {
		batch = 1
	}

	for start := 0; start < len(rows); start += batch {
		end := start + batch
		if end > len(rows) {
			end = len(rows)
		}
		if err := s.insertBatch(ctx, table, columns, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// maxBindParams stays well under SQLite's default variable limit.
const maxBindParams = 900

func (s *Sink) insertBatch(ctx context.Context, table string, columns []string, rows [][]any) error {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(sqlIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		b.WriteString(strings.TrimRight(strings.Repeat("?,", len(columns)), ","))
		b.WriteString(")")
		args = append(args, row...)
	}

	_, err := s.db.ExecContext(ctx, b.String(), args...)
	return err
}

func buildCreateTableSQL(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(sqlIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlIdent(c))
		b.WriteString(" TEXT")
	}
	b.WriteString(")")
	return b.String()
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
