package core

// csv.go reads bronze source extracts.
//
// Files are streamed through WrapForStreaming, the header is checked against
// the stage's FieldSpec list, and every cell is converted by field type.
// Cells that cannot be parsed become NULL; bronze keeps whatever arrived and
// the silver rules decide what it means.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVStats describes one read of a source extract.
type CSVStats struct {
	Path      string
	Encoding  Encoding
	Bytes     int64
	Rows      int
	BlankRows int
}

// ReadCSV reads a source extract and returns its rows in fields order.
// Columns not listed in fields are ignored; optional fields missing from the
// header read as NULL.
func ReadCSV(ctx context.Context, path string, fields []FieldSpec) ([][]any, CSVStats, error) {
	stats := CSVStats{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	counter := NewStreamingCountingReader(f)
	r, enc, err := WrapForStreaming(counter)
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", path, err)
	}
	stats.Encoding = enc

	rows, blank, err := readRecords(ctx, r, fields)
	stats.Bytes = counter.BytesRead
	stats.Rows = len(rows)
	stats.BlankRows = blank
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, stats, nil
}

func readRecords(ctx context.Context, src io.Reader, fields []FieldSpec) ([][]any, int, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, errors.New("empty file")
	}
	if err != nil {
		return nil, 0, err
	}

	headerIdx, err := ValidateHeaders(header, fields)
	if err != nil {
		return nil, 0, err
	}

	positions := make([]int, len(fields))
	for i, field := range fields {
		pos, ok := headerIdx[strings.ToLower(field.Name)]
		if !ok {
			pos = -1
		}
		positions[i] = pos
	}

	var rows [][]any
	blank := 0
	for line := 2; ; line++ {
		if line%1000 == 0 && ctx.Err() != nil {
			return nil, blank, ctx.Err()
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, blank, err
		}
		if isEmptyRow(record) {
			blank++
			continue
		}

		row := make([]any, len(fields))
		for i, field := range fields {
			cell := ""
			if pos := positions[i]; pos >= 0 && pos < len(record) {
				cell = CleanCell(record[pos])
			}
			row[i] = CellValue(cell, field.Type)
		}
		rows = append(rows, row)
	}

	return rows, blank, ctx.Err()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
