// Package mssql implements storage.Sink for SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"json2csv/internal/storage"
)

// Sink writes tables into a SQL Server database. Columns are
// NVARCHAR(MAX); values arrive pre-rendered in canonical text form.
type Sink struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
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
	var cols strings.Builder
	for i, c := range columns {
		if i > 0 {
			cols.WriteString(", ")
		}
		cols.WriteString(mssqlIdent(c))
		cols.WriteString(" NVARCHAR(MAX)")
	}

	// No CREATE TABLE IF NOT EXISTS on SQL Server; guard via OBJECT_ID.
	q := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		strings.ReplaceAll(table, "'", "''"), mssqlIdent(table), cols.String(),
	)

	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *Sink) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	// SQL Server caps a statement at 2100 parameters.
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

const maxBindParams = 2000

func (s *Sink) insertBatch(ctx context.Context, table string, columns []string, rows [][]any) error {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(mssqlIdent(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(mssqlIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	n := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "@p%d", n)
			n++
		}
		b.WriteString(")")
		args = append(args, row...)
	}

	_, err := s.db.ExecContext(ctx, b.String(), args...)
	return err
}

func mssqlIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
