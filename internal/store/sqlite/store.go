// Package sqlite implements core.Store on an embedded SQLite database.
//
// SQLite has no schemas, so a table bronze.crm_cust_info is stored as
// bronze_crm_cust_info. The backend serves local runs and end-to-end tests
// without a Postgres server.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/silver/internal/core"
)

//go:embed schema.sql
var schemaSQL string

var schemaTmpl = template.Must(template.New("schema").Parse(schemaSQL))

// Store is a SQLite-backed core.Store.
type Store struct {
	db *sql.DB
}

// Open opens the database at dsn. A dsn of ":memory:" gives a private
// in-memory database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// In-memory databases exist per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// ApplySchema creates every warehouse table that does not exist yet.
func (s *Store) ApplySchema(ctx context.Context, schemas core.Schemas) error {
	var buf bytes.Buffer
	err := schemaTmpl.Execute(&buf, struct{ Bronze, Silver string }{
		Bronze: escapeQuoted(schemas.Bronze),
		Silver: escapeQuoted(schemas.Silver),
	})
	if err != nil {
		return fmt.Errorf("render schema: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, buf.String()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Read returns every row of table, one value per requested column.
func (s *Store) Read(ctx context.Context, table core.TableRef, columns []string) ([][]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", quoteColumns(columns), tableName(table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

// Replace empties table and inserts rows in a single transaction.
func (s *Store) Replace(ctx context.Context, table core.TableRef, columns []string, rows [][]any) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	name := tableName(table)
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+name); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, quoteColumns(columns), placeholders))
	if err != nil {
		return 0, fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	var n int64
	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("insert %s row %d: %w", table, i+1, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return n, nil
}

func tableName(table core.TableRef) string {
	return quoteIdentifier(table.Schema + "_" + table.Name)
}

func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

func quoteIdentifier(name string) string {
	return `"` + escapeQuoted(name) + `"`
}

func escapeQuoted(name string) string {
	return strings.ReplaceAll(name, `"`, `""`)
}
