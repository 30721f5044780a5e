// Package postgres implements core.Store on a pgx connection pool.
//
// Reads select the requested columns in table order. Replace truncates the
// target table and refills it with COPY inside one transaction, so a failed
// stage leaves the previous contents in place.
package postgres

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/silver/internal/core"
)

//go:embed schema.sql
var schemaSQL string

var schemaTmpl = template.Must(template.New("schema").Parse(schemaSQL))

// DBTX is the subset of pgx shared by pools and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// PoolOptions holds connection pool settings.
type PoolOptions struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Store is a Postgres-backed core.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open parses url, applies the pool options, connects and pings.
func Open(ctx context.Context, url string, opts PoolOptions) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns >= 0 {
		poolConfig.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return New(pool), nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ApplySchema creates both schemas and every warehouse table that does not
// exist yet. Existing tables are left untouched.
func (s *Store) ApplySchema(ctx context.Context, schemas core.Schemas) error {
	ddl, err := RenderSchema(schemas)
	if err != nil {
		return err
	}
	// No arguments, so pgx uses the simple protocol and accepts several statements.
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// RenderSchema returns the DDL for the given schema names.
func RenderSchema(schemas core.Schemas) (string, error) {
	var buf bytes.Buffer
	err := schemaTmpl.Execute(&buf, struct{ Bronze, Silver string }{
		Bronze: quoteIdentifier(schemas.Bronze),
		Silver: quoteIdentifier(schemas.Silver),
	})
	if err != nil {
		return "", fmt.Errorf("render schema: %w", err)
	}
	return buf.String(), nil
}

// Read returns every row of table, one value per requested column.
func (s *Store) Read(ctx context.Context, table core.TableRef, columns []string) ([][]any, error) {
	return readRows(ctx, s.pool, table, columns)
}

// Replace empties table and copies rows into it in a single transaction.
func (s *Store) Replace(ctx context.Context, table core.TableRef, columns []string, rows [][]any) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := replaceRows(ctx, tx, table, columns, rows)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func readRows(ctx context.Context, db DBTX, table core.TableRef, columns []string) ([][]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", quoteColumns(columns), qualified(table))

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}

func replaceRows(ctx context.Context, db DBTX, table core.TableRef, columns []string, rows [][]any) (int64, error) {
	if _, err := db.Exec(ctx, "TRUNCATE TABLE "+qualified(table)); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", table, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{table.Schema, table.Name}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

func qualified(table core.TableRef) string {
	return quoteIdentifier(table.Schema) + "." + quoteIdentifier(table.Name)
}

func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
