package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

var locationFields = []FieldSpec{
	{Name: "cid", Type: FieldText, Required: true},
	{Name: "cntry", Type: FieldText},
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "LOC_A101.csv", []byte(
		"\xEF\xBB\xBFCID,CNTRY\r\n"+
			"AW-00011000,Australia\r\n"+
			"AW-00011001, DE \r\n"+
			",\r\n"+
			"AW-00011002,\r\n",
	))

	rows, stats, err := ReadCSV(context.Background(), path, locationFields)
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if stats.BlankRows != 1 || stats.Rows != 3 || stats.Encoding != EncodingUTF8 || stats.Bytes == 0 {
		t.Errorf("stats = %+v", stats)
	}
	if got := rows[1][1].(pgtype.Text); got.String != " DE " {
		t.Errorf("cell whitespace should be kept for silver, got %q", got.String)
	}
	if got := rows[2][1].(pgtype.Text); got.Valid {
		t.Errorf("empty cell should be NULL, got %+v", got)
	}
}

func TestReadCSV_TypedColumnsAndReordering(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales_details.csv", []byte(
		"sls_quantity,sls_ord_num,sls_order_dt,sls_price,extra\n"+
			"1,SO43697,20101229,3578.27,ignored\n"+
			"x,SO43698,0,,ignored\n",
	))
	fields := []FieldSpec{
		{Name: "sls_ord_num", Type: FieldText, Required: true},
		{Name: "sls_order_dt", Type: FieldInt},
		{Name: "sls_price", Type: FieldNumeric},
		{Name: "sls_quantity", Type: FieldInt},
		{Name: "sls_sales", Type: FieldNumeric},
	}

	rows, _, err := ReadCSV(context.Background(), path, fields)
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}

	first := rows[0]
	if first[0].(pgtype.Text).String != "SO43697" {
		t.Errorf("order number = %+v", first[0])
	}
	if first[1].(pgtype.Int8).Int64 != 20101229 {
		t.Errorf("order date = %+v", first[1])
	}
	if first[2].(pgtype.Float8).Float64 != 3578.27 {
		t.Errorf("price = %+v", first[2])
	}
	if first[3].(pgtype.Int8).Int64 != 1 {
		t.Errorf("quantity = %+v", first[3])
	}
	if first[4].(pgtype.Float8).Valid {
		t.Errorf("column absent from header should be NULL, got %+v", first[4])
	}

	second := rows[1]
	if second[3].(pgtype.Int8).Valid {
		t.Errorf("unparsable quantity should be NULL, got %+v", second[3])
	}
	if v := second[1].(pgtype.Int8); !v.Valid || v.Int64 != 0 {
		t.Errorf("zero date should load as 0 for silver to reject, got %+v", v)
	}
}

func TestReadCSV_Latin1(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cust_info.csv", []byte("cid,cntry\nAW1,Espa\xf1a\n"))

	rows, stats, err := ReadCSV(context.Background(), path, locationFields)
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if stats.Encoding != EncodingLatin1 {
		t.Errorf("encoding = %q, want %q", stats.Encoding, EncodingLatin1)
	}
	if got := rows[0][1].(pgtype.Text).String; got != "España" {
		t.Errorf("country = %q, want España", got)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		wantCode string
		wantText string
	}{
		{
			name:     "missing file",
			path:     filepath.Join(dir, "nope.csv"),
			wantCode: "FILE001",
		},
		{
			name:     "empty file",
			path:     writeFile(t, dir, "empty.csv", nil),
			wantCode: "FILE005",
			wantText: "empty file",
		},
		{
			name:     "missing required column",
			path:     writeFile(t, dir, "bad_header.csv", []byte("country\nDE\n")),
			wantCode: "VAL004",
			wantText: "cid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadCSV(context.Background(), tt.path, locationFields)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := MapError(err).Code; got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q should mention %q", err, tt.wantText)
			}
		})
	}
}

func TestReadCSV_Cancelled(t *testing.T) {
	var b strings.Builder
	b.WriteString("cid,cntry\n")
	for i := 0; i < 5000; i++ {
		b.WriteString("AW1,DE\n")
	}
	path := writeFile(t, t.TempDir(), "big.csv", []byte(b.String()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ReadCSV(ctx, path, locationFields)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadCSV() error = %v, want context.Canceled", err)
	}
}

func TestFromCSV_ResolvesUnderSourceDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, filepath.Join("source_erp", "LOC_A101.csv"), []byte("cid,cntry\nAW-1,US\n"))

	extract := FromCSV("source_erp/LOC_A101.csv", locationFields)
	rows, err := extract(context.Background(), Env{SourceDir: dir})
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if len(rows) != 1 || rows[0][0].(pgtype.Text).String != "AW-1" {
		t.Errorf("rows = %v", rows)
	}
}

func TestValidateHeaders(t *testing.T) {
	specs := []FieldSpec{
		{Name: "prd_id", Required: true},
		{Name: "prd_key", Required: true},
		{Name: "prd_cost"},
	}

	if _, err := ValidateHeaders([]string{"PRD_ID", "prd_key"}, specs); err != nil {
		t.Errorf("optional column should not be required: %v", err)
	}

	_, err := ValidateHeaders([]string{"prd_cost"}, specs)
	if err == nil || !strings.Contains(err.Error(), "prd_id, prd_key") {
		t.Errorf("error should list missing columns, got %v", err)
	}
}

func TestColumns(t *testing.T) {
	specs := []FieldSpec{{Name: "CID"}, {Name: "Country", DBColumn: "cntry"}}
	got := Columns(specs)
	if len(got) != 2 || got[0] != "CID" || got[1] != "cntry" {
		t.Errorf("Columns() = %v", got)
	}
}

func TestIsEmptyRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{"empty slice", []string{}, true},
		{"multiple empty strings", []string{"", "", ""}, true},
		{"whitespace only cells", []string{"   ", "\t", "  \t  "}, true},
		{"newlines only", []string{"\n", "\r\n", "\r"}, true},
		{"non-empty last cell", []string{"", "", "data"}, false},
		{"whitespace and data", []string{"   ", "data", "\t"}, false},
		{"number zero is data", []string{"0"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmptyRow(tt.row); got != tt.want {
				t.Errorf("isEmptyRow(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}
