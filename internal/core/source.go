package core

import (
	"context"
	"path/filepath"

	"github.com/JonMunkholm/silver/internal/logging"
)

// FromTable returns an extract that reads columns of a bronze table.
func FromTable(table string, columns []string) ExtractFunc {
	return func(ctx context.Context, env Env) ([][]any, error) {
		ref := TableRef{Schema: env.Schemas.Bronze, Name: table}
		return env.Store.Read(ctx, ref, columns)
	}
}

// FromCSV returns an extract that reads a source extract under the
// configured source directory. Rows come back in fields order.
func FromCSV(path string, fields []FieldSpec) ExtractFunc {
	return func(ctx context.Context, env Env) ([][]any, error) {
		full := filepath.Join(env.SourceDir, filepath.FromSlash(path))

		rows, stats, err := ReadCSV(ctx, full, fields)
		if err != nil {
			return nil, err
		}

		logging.FromContext(ctx).Debug("source read",
			"path", stats.Path,
			"encoding", stats.Encoding,
			"bytes", stats.Bytes,
			"rows", stats.Rows,
			"blank_rows", stats.BlankRows,
		)
		return rows, nil
	}
}

// Cleanse builds a TransformFunc from a row decoder, a set-level rule and
// a row encoder. decode sees one raw row; clean sees the whole set so that
// rules spanning rows (dedupe, end dates) can run; encode produces one row
// per cleansed record in target column order.
func Cleanse[R, C any](decode func(row []any) R, clean func(raws []R, env Env) []C, encode func(C) []any) TransformFunc {
	return func(rows [][]any, env Env) ([][]any, error) {
		raws := make([]R, len(rows))
		for i, row := range rows {
			raws[i] = decode(row)
		}

		cleansed := clean(raws, env)

		out := make([][]any, len(cleansed))
		for i, c := range cleansed {
			out[i] = encode(c)
		}
		return out, nil
	}
}
