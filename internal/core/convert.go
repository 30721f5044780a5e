package core

// convert.go turns CSV cells and database driver values into pgtype values.
//
// Two directions are covered:
//   - ToPg* parse user-provided CSV text (date formats, currency symbols,
//     thousand separators, Excel formula prefixes)
//   - *Value accept whatever a driver hands back from a row scan (int32,
//     int64, float64, string, []byte, time.Time, pgtype values)
//
// All functions return pgtype values with Valid=false for empty or
// unparsable input, so bad cells land as NULL instead of failing the load.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	timestampLayouts = []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
	}
)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	if strings.TrimSpace(s) == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate converts a string to pgtype.Date.
// Supports multiple date formats and handles 2-digit years with pivot.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	currentYear := time.Now().Year()
	pivotYear := currentYear + TwoDigitYearPivot

	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return pgtype.Date{Time: t, Valid: true}
		}
	}

	// Timestamps are accepted and truncated to their date
	if ts := parseTimestamp(s); ts.Valid {
		return dateOf(ts.Time)
	}

	return pgtype.Date{Valid: false}
}

// ToPgTimestamp converts a string to pgtype.Timestamp.
// Plain dates are accepted and read as midnight.
func ToPgTimestamp(s string) pgtype.Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Timestamp{Valid: false}
	}
	if ts := parseTimestamp(s); ts.Valid {
		return ts
	}
	if d := ToPgDate(s); d.Valid {
		return pgtype.Timestamp{Time: d.Time, Valid: true}
	}
	return pgtype.Timestamp{Valid: false}
}

func parseTimestamp(s string) pgtype.Timestamp {
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return pgtype.Timestamp{Time: t, Valid: true}
		}
	}
	return pgtype.Timestamp{Valid: false}
}

// ToPgFloat8 converts a string to pgtype.Float8.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ToPgFloat8(s string) pgtype.Float8 {
	s = cleanNumber(s)
	if s == "" || !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ToPgInt8 converts a string to pgtype.Int8.
// Accepts the same formats as ToPgFloat8 as long as the value is integral.
func ToPgInt8(s string) pgtype.Int8 {
	s = cleanNumber(s)
	if s == "" {
		return pgtype.Int8{Valid: false}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return pgtype.Int8{Int64: n, Valid: true}
	}
	return float8ToInt8(ToPgFloat8(s))
}

// cleanNumber strips currency symbols and separators, turning "(12)" into "-12".
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative && s != "" {
		s = "-" + s
	}
	return s
}

// CellValue converts a cleaned CSV cell according to its field type.
func CellValue(s string, ft FieldType) any {
	switch ft {
	case FieldInt:
		return ToPgInt8(s)
	case FieldNumeric:
		return ToPgFloat8(s)
	case FieldDate:
		return ToPgDate(s)
	case FieldTimestamp:
		return ToPgTimestamp(s)
	default:
		return ToPgText(s)
	}
}

// TextValue converts a driver value to pgtype.Text.
// Strings are kept verbatim, including surrounding whitespace.
func TextValue(v any) pgtype.Text {
	switch x := v.(type) {
	case nil:
		return pgtype.Text{}
	case pgtype.Text:
		return x
	case string:
		return pgtype.Text{String: x, Valid: true}
	case []byte:
		return pgtype.Text{String: string(x), Valid: true}
	case int64:
		return pgtype.Text{String: strconv.FormatInt(x, 10), Valid: true}
	case int32:
		return pgtype.Text{String: strconv.FormatInt(int64(x), 10), Valid: true}
	case int:
		return pgtype.Text{String: strconv.Itoa(x), Valid: true}
	case float64:
		return pgtype.Text{String: strconv.FormatFloat(x, 'f', -1, 64), Valid: true}
	case time.Time:
		return pgtype.Text{String: x.Format("2006-01-02"), Valid: true}
	default:
		return pgtype.Text{}
	}
}

// Int8Value converts a driver value to pgtype.Int8.
// Non-integral numbers are invalid.
func Int8Value(v any) pgtype.Int8 {
	switch x := v.(type) {
	case nil:
		return pgtype.Int8{}
	case pgtype.Int8:
		return x
	case pgtype.Int4:
		return pgtype.Int8{Int64: int64(x.Int32), Valid: x.Valid}
	case pgtype.Numeric:
		if !x.Valid {
			return pgtype.Int8{}
		}
		n, err := x.Int64Value()
		if err != nil {
			return pgtype.Int8{}
		}
		return n
	case int64:
		return pgtype.Int8{Int64: x, Valid: true}
	case int32:
		return pgtype.Int8{Int64: int64(x), Valid: true}
	case int16:
		return pgtype.Int8{Int64: int64(x), Valid: true}
	case int:
		return pgtype.Int8{Int64: int64(x), Valid: true}
	case float64:
		return float8ToInt8(pgtype.Float8{Float64: x, Valid: true})
	case float32:
		return float8ToInt8(pgtype.Float8{Float64: float64(x), Valid: true})
	case string:
		return ToPgInt8(x)
	case []byte:
		return ToPgInt8(string(x))
	default:
		return pgtype.Int8{}
	}
}

// Float8Value converts a driver value to pgtype.Float8.
func Float8Value(v any) pgtype.Float8 {
	switch x := v.(type) {
	case nil:
		return pgtype.Float8{}
	case pgtype.Float8:
		return x
	case pgtype.Numeric:
		if !x.Valid {
			return pgtype.Float8{}
		}
		f, err := x.Float64Value()
		if err != nil {
			return pgtype.Float8{}
		}
		return f
	case float64:
		return pgtype.Float8{Float64: x, Valid: true}
	case float32:
		return pgtype.Float8{Float64: float64(x), Valid: true}
	case int64:
		return pgtype.Float8{Float64: float64(x), Valid: true}
	case int32:
		return pgtype.Float8{Float64: float64(x), Valid: true}
	case int:
		return pgtype.Float8{Float64: float64(x), Valid: true}
	case string:
		return ToPgFloat8(x)
	case []byte:
		return ToPgFloat8(string(x))
	default:
		return pgtype.Float8{}
	}
}

// DateValue converts a driver value to pgtype.Date, dropping any time of day.
func DateValue(v any) pgtype.Date {
	switch x := v.(type) {
	case nil:
		return pgtype.Date{}
	case pgtype.Date:
		return x
	case pgtype.Timestamp:
		if !x.Valid {
			return pgtype.Date{}
		}
		return dateOf(x.Time)
	case time.Time:
		return dateOf(x)
	case string:
		return ToPgDate(x)
	case []byte:
		return ToPgDate(string(x))
	default:
		return pgtype.Date{}
	}
}

// TimestampValue converts a driver value to pgtype.Timestamp.
func TimestampValue(v any) pgtype.Timestamp {
	switch x := v.(type) {
	case nil:
		return pgtype.Timestamp{}
	case pgtype.Timestamp:
		return x
	case pgtype.Date:
		return pgtype.Timestamp{Time: x.Time, Valid: x.Valid}
	case time.Time:
		return pgtype.Timestamp{Time: x, Valid: true}
	case string:
		return ToPgTimestamp(x)
	case []byte:
		return ToPgTimestamp(string(x))
	default:
		return pgtype.Timestamp{}
	}
}

func dateOf(t time.Time) pgtype.Date {
	y, m, d := t.Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

func float8ToInt8(f pgtype.Float8) pgtype.Int8 {
	if !f.Valid || f.Float64 != math.Trunc(f.Float64) ||
		f.Float64 > math.MaxInt64 || f.Float64 < math.MinInt64 {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: int64(f.Float64), Valid: true}
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(CleanCell(h)))
		idx[key] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
//
// Surrounding whitespace is kept; the silver rules decide what to trim.
func CleanCell(s string) string {
	t := strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(t, "=\"") && strings.HasSuffix(t, "\"") {
		return t[2 : len(t)-1]
	} else if strings.HasPrefix(t, "=") {
		return t[1:]
	}

	if len(t) >= 2 && (t[0] == '"' || t[0] == '\'') && t[len(t)-1] == t[0] {
		return t[1 : len(t)-1]
	}

	return s
}
