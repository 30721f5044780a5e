package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"testing"
	"time"
)

// ============================================================================
// Conversion Function Benchmarks
// ============================================================================

// BenchmarkToPgFloat8 benchmarks numeric string conversion.
// This is a hot path during bronze ingestion for sls_sales and sls_price.
func BenchmarkToPgFloat8(b *testing.B) {
	testCases := []string{
		"123",
		"-456.78",
		"$1,234.56",
		"(123.45)",     // Accounting negative
		"1,234,567.89", // Thousands separators
		"  999.99  ",   // Whitespace
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ToPgFloat8(tc)
		}
	}
}

// BenchmarkToPgInt8_Simple benchmarks the most common case: plain integers.
func BenchmarkToPgInt8_Simple(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ToPgInt8("20101229")
	}
}

// BenchmarkToPgDate benchmarks date string parsing.
func BenchmarkToPgDate(b *testing.B) {
	testCases := []string{
		"2024-01-15",          // ISO format
		"01/15/2024",          // US format
		"20240115",            // Compact
		"1/5/24",              // 2-digit year
		"2024-01-15 00:00:00", // Timestamp fallback
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ToPgDate(tc)
		}
	}
}

// BenchmarkDateValue benchmarks decoding the driver values silver stages read.
func BenchmarkDateValue(b *testing.B) {
	values := []any{
		time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		"2025-10-06 00:00:00+00:00",
		nil,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			DateValue(v)
		}
	}
}

// BenchmarkCleanCell benchmarks cell cleaning with various inputs.
func BenchmarkCleanCell(b *testing.B) {
	testCases := []string{
		"AW00011000",
		`="00123"`,
		`"quoted"`,
		"  padded  ",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			CleanCell(tc)
		}
	}
}

// BenchmarkMakeHeaderIndex benchmarks header index creation.
func BenchmarkMakeHeaderIndex(b *testing.B) {
	headers := []string{
		"sls_ord_num", "sls_prd_key", "sls_cust_id", "sls_order_dt", "sls_ship_dt",
		"sls_due_dt", "sls_sales", "sls_quantity", "sls_price",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MakeHeaderIndex(headers)
	}
}

// ============================================================================
// Streaming Benchmarks
// ============================================================================

// BenchmarkWrapForStreaming benchmarks encoding detection and decoding.
func BenchmarkWrapForStreaming(b *testing.B) {
	utf8Data := generateSalesCSV(1000)
	latin1Data := append(bytes.Clone(utf8Data), []byte("SO9,Espa\xf1a,1,20240101,,,1,1,1\n")...)

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"utf8", utf8Data},
		{"latin1", latin1Data},
	} {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(tc.data)))
			for i := 0; i < b.N; i++ {
				r, _, err := WrapForStreaming(bytes.NewReader(tc.data))
				if err != nil {
					b.Fatal(err)
				}
				io.Copy(io.Discard, r)
			}
		})
	}
}

// ============================================================================
// CSV Reading Benchmarks
// ============================================================================

// BenchmarkReadRecords benchmarks the typed CSV reader bronze stages use.
func BenchmarkReadRecords(b *testing.B) {
	fields := []FieldSpec{
		{Name: "sls_ord_num", Type: FieldText, Required: true},
		{Name: "sls_prd_key", Type: FieldText},
		{Name: "sls_cust_id", Type: FieldInt},
		{Name: "sls_order_dt", Type: FieldInt},
		{Name: "sls_ship_dt", Type: FieldInt},
		{Name: "sls_due_dt", Type: FieldInt},
		{Name: "sls_sales", Type: FieldNumeric},
		{Name: "sls_quantity", Type: FieldInt},
		{Name: "sls_price", Type: FieldNumeric},
	}

	for _, rows := range []int{100, 10000} {
		data := generateSalesCSV(rows)
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, _, err := readRecords(context.Background(), bytes.NewReader(data), fields); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkIsEmptyRow benchmarks empty row detection.
func BenchmarkIsEmptyRow(b *testing.B) {
	tests := []struct {
		name string
		row  []string
	}{
		{"empty", make([]string, 9)},
		{"last_column_set", func() []string {
			row := make([]string, 9)
			row[8] = "10"
			return row
		}()},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				isEmptyRow(tt.row)
			}
		})
	}
}

// ============================================================================
// Transform Benchmarks
// ============================================================================

// BenchmarkCleanse measures the decode, set rule and encode overhead of a
// silver transform.
func BenchmarkCleanse(b *testing.B) {
	transform := Cleanse(
		func(row []any) int64 { return Int8Value(row[0]).Int64 },
		func(raws []int64, _ Env) []int64 { return raws },
		func(v int64) []any { return []any{v} },
	)
	rows := make([][]any, 10000)
	for i := range rows {
		rows[i] = []any{int32(i)}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := transform(rows, Env{}); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateSalesCSV generates a sales_details extract with the given number of rows.
func generateSalesCSV(rows int) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Header
	w.Write([]string{
		"sls_ord_num", "sls_prd_key", "sls_cust_id", "sls_order_dt", "sls_ship_dt",
		"sls_due_dt", "sls_sales", "sls_quantity", "sls_price",
	})

	// Data rows
	for i := 0; i < rows; i++ {
		w.Write([]string{
			fmt.Sprintf("SO%05d", i),
			"BK-R93R-62",
			"21768",
			"20101229",
			"20110105",
			"20110110",
			"3578.27",
			"1",
			"3578.27",
		})
	}
	w.Flush()

	return buf.Bytes()
}
