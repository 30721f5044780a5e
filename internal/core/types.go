package core

import (
	"context"
	"fmt"
	"time"
)

// Layer names a warehouse layer. Each layer lives in its own schema.
type Layer string

const (
	LayerBronze Layer = "bronze"
	LayerSilver Layer = "silver"
)

// TableRef names a table inside a schema.
type TableRef struct {
	Schema string
	Name   string
}

func (t TableRef) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Store reads and replaces whole tables.
//
// Replace truncates the table and inserts rows in a single transaction, so a
// failed load leaves the previous contents in place. Values in rows are
// native Go types or pgtype values in the order of columns.
type Store interface {
	Read(ctx context.Context, table TableRef, columns []string) ([][]any, error)
	Replace(ctx context.Context, table TableRef, columns []string, rows [][]any) (int64, error)
}

// Schemas maps layers to database schema names.
type Schemas struct {
	Bronze string
	Silver string
}

// For returns the schema holding the given layer.
func (s Schemas) For(layer Layer) string {
	switch layer {
	case LayerBronze:
		return s.Bronze
	case LayerSilver:
		return s.Silver
	default:
		return string(layer)
	}
}

// Env is what a stage can see while it runs.
type Env struct {
	Store     Store
	Schemas   Schemas
	SourceDir string           // Root of the bronze CSV extracts
	Now       func() time.Time // Clock for rules that compare against today
}

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldNumeric
	FieldDate
	FieldTimestamp
)

// FieldSpec describes a single CSV column and the bronze column it feeds.
type FieldSpec struct {
	Name     string    // Column header name (matched case-insensitively)
	DBColumn string    // Database column name (defaults to Name)
	Type     FieldType // Expected data type
	Required bool      // Column must exist in CSV header
}

// Column returns the database column the field is written to.
func (f FieldSpec) Column() string {
	if f.DBColumn != "" {
		return f.DBColumn
	}
	return f.Name
}

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// StageInfo contains display information about a stage.
type StageInfo struct {
	Key   string // Target table name: "crm_cust_info"
	Layer Layer  // Layer the stage loads into
	Group string // Source system: "CRM", "ERP"
	Label string // Display name: "Customers"
	Order int    // Position within the layer
}

// ID returns the registry key of the stage, unique across layers.
func (i StageInfo) ID() string {
	return string(i.Layer) + "." + i.Key
}

// ExtractFunc reads the raw rows a stage works on.
type ExtractFunc func(ctx context.Context, env Env) ([][]any, error)

// TransformFunc turns raw rows into rows for the target table.
// The returned rows must match TargetColumns.
type TransformFunc func(rows [][]any, env Env) ([][]any, error)

// StageDefinition contains everything needed to load one table.
type StageDefinition struct {
	Info          StageInfo
	Extract       ExtractFunc
	Transform     TransformFunc // Optional; nil passes rows through
	TargetColumns []string
}

// Target returns the table the stage replaces.
func (d StageDefinition) Target(schemas Schemas) TableRef {
	return TableRef{Schema: schemas.For(d.Info.Layer), Name: d.Info.Key}
}

// StageResult is the outcome of a single stage.
type StageResult struct {
	Key         string
	Group       string
	Label       string
	Start       time.Time
	End         time.Time
	Duration    time.Duration
	RowsRead    int
	RowsWritten int64
	Skipped     bool        // Not run because an earlier stage failed
	Err         *StageError // Non-nil if the stage failed
}

// RunResult is the outcome of loading one layer.
type RunResult struct {
	RunID    string
	Layer    Layer
	Start    time.Time
	End      time.Time
	Duration time.Duration
	Stages   []StageResult
	Failed   []*StageError
}

// Success reports whether every stage ran and none failed.
func (r RunResult) Success() bool {
	if len(r.Failed) > 0 {
		return false
	}
	for _, s := range r.Stages {
		if s.Skipped {
			return false
		}
	}
	return true
}

// Err returns the first stage failure, or nil.
func (r RunResult) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return r.Failed[0]
}

// StageError describes why a stage failed.
type StageError struct {
	Stage   string // Stage key
	Code    string // Support code from MapError
	State   string // SQLSTATE when the database reported one
	Message string // User-facing message
	Err     error  // Underlying error
}

func (e *StageError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("%s: %v (code %s, sqlstate %s)", e.Stage, e.Err, e.Code, e.State)
	}
	return fmt.Sprintf("%s: %v (code %s)", e.Stage, e.Err, e.Code)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
