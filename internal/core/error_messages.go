// # Error Codes Reference
//
// This file maps technical load failures to short messages with codes for
// support reference. The runner attaches the code to every failed stage and
// logs it next to the SQLSTATE the database reported, if any.
//
// Error codes are grouped by category:
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A row with this key already exists
//	        Patterns: "duplicate key"
//
//	DB002 - Unique constraint: A value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB003 - Foreign key: Referenced record does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset", "broken pipe"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
//	DB008 - Permission denied: The database user lacks a privilege
//	        Patterns: "permission denied"
//
//	DB009 - Database locked: Another process holds the database
//	        Patterns: "database is locked"
//
// # Value Errors (VAL001-VAL099)
//
//	VAL001 - Value too long: A value does not fit its column
//	         Patterns: "value too long"
//
//	VAL002 - Out of range: A number does not fit its column
//	         Patterns: "out of range"
//
//	VAL003 - Invalid input: The database rejected a value
//	         Patterns: "invalid input syntax"
//
//	VAL004 - Missing column: Required column is missing from CSV
//	         Patterns: "missing required column"
//
//	VAL005 - Column mismatch: Row shape differs from the target columns
//	         Patterns: "column count"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found: Source extract is missing
//	          Patterns: "no such file", "file does not exist"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Patterns: "parse error", "wrong number of fields", "invalid csv"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Patterns: "encoding error"
//
//	FILE005 - Empty file: Source extract has no header row
//	          Patterns: "empty file"
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Table not found: Target or source table does not exist
//	         Patterns: "no such table", "does not exist"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The load was cancelled
//	         Patterns: "context canceled"
//
//	RUN002 - Deadline: The load ran past LOAD_TIMEOUT
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the logged technical
// error for details.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A row with this key already exists",
			Action:  "Check that the table was truncated before the insert",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A value must be unique but already exists",
			Action:  "Check the target table for unexpected constraints",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check the target table for unexpected constraints",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Remove foreign keys from warehouse tables",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Remove foreign keys from warehouse tables",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB009)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Run the load again",
			Code:    "DB005",
		},
	},
	{
		pattern: "broken pipe",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Run the load again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise LOAD_TIMEOUT or check database load",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Make sure no other load is running",
			Code:    "DB007",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The database user lacks a required privilege",
			Action:  "Grant TRUNCATE, INSERT and SELECT on the warehouse schemas",
			Code:    "DB008",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "The database file is locked by another process",
			Action:  "Make sure no other load is running",
			Code:    "DB009",
		},
	},

	// =========================================================================
	// Value Errors (VAL001-VAL005)
	// =========================================================================
	{
		pattern: "value too long",
		msg: UserMessage{
			Message: "A value does not fit its column",
			Action:  "Widen the column or fix the source data",
			Code:    "VAL001",
		},
	},
	{
		pattern: "out of range",
		msg: UserMessage{
			Message: "A number does not fit its column",
			Action:  "Widen the column or fix the source data",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid input syntax",
		msg: UserMessage{
			Message: "The database rejected a value",
			Action:  "Check column types against the loader",
			Code:    "VAL003",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Check that all required columns are present in the extract",
			Code:    "VAL004",
		},
	},
	{
		pattern: "column count",
		msg: UserMessage{
			Message: "Row shape does not match the target table",
			Action:  "Check the stage definition against the table",
			Code:    "VAL005",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "Source extract not found",
			Action:  "Check BRONZE_SOURCE_DIR",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "Source extract not found",
			Action:  "Check BRONZE_SOURCE_DIR",
			Code:    "FILE001",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent quoting",
			Code:    "FILE002",
		},
	},
	{
		pattern: "wrong number of fields",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure every row has the same number of columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "Source extract is empty",
			Action:  "Export the extract again with a header row",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Table Errors (TBL001)
	// =========================================================================
	{
		pattern: "no such table",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Create the warehouse tables or set DB_APPLY_SCHEMA=true",
			Code:    "TBL001",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Create the warehouse tables or set DB_APPLY_SCHEMA=true",
			Code:    "TBL001",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The load was cancelled",
			Action:  "Run the load again",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The load ran out of time",
			Action:  "Raise LOAD_TIMEOUT",
			Code:    "RUN002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("duplicate key violation")
//	msg := MapError(err)
//	// msg.Code == "DB001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// SQLState returns the SQLSTATE code carried by a Postgres error, or "".
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// NewStageError wraps a stage failure with its support code and SQLSTATE.
// Returns nil if err is nil.
func NewStageError(stage string, err error) *StageError {
	if err == nil {
		return nil
	}
	msg := MapError(err)
	return &StageError{
		Stage:   stage,
		Code:    msg.Code,
		State:   SQLState(err),
		Message: msg.Message,
		Err:     err,
	}
}
