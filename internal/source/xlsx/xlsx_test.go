package xlsx

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/source"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	wb := spreadsheet.New()
	defer wb.Close()

	sheet := wb.AddSheet()
	sheet.SetName("People")

	hdr := sheet.AddRow()
	hdr.AddCell().SetString("Id")
	hdr.AddCell().SetString("Full Name")
	hdr.AddCell().SetString("Amount")
	hdr.AddCell().SetString("Active")

	r := sheet.AddRow()
	r.AddCell().SetNumber(1)
	r.AddCell().SetString("Ada")
	r.AddCell().SetNumber(1234.5)
	r.AddCell().SetBool(true)

	r = sheet.AddRow()
	r.AddCell().SetNumber(2)
	r.AddCell().SetString("Note spanning two columns")
	r.AddCell().SetString("covered")
	r.AddCell().SetBool(false)
	sheet.AddMergedCells("B3", "C3")

	width, custom := 6.0, true
	col := sheet.Column(1)
	col.X().WidthAttr = &width
	col.X().CustomWidthAttr = &custom

	other := wb.AddSheet()
	other.SetName("Other")
	other.AddRow().AddCell().SetString("x")

	path := filepath.Join(t.TempDir(), "people.xlsx")
	if err := wb.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}
	return path
}

func TestOpenWithHeader(t *testing.T) {
	s, err := Open(writeWorkbook(t), Options{HeaderRow: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Name != "People" {
		t.Errorf("Name = %q, want People", s.Name)
	}

	wantKeys := []string{"id", "full_name", "amount", "active"}
	if len(s.Columns) != len(wantKeys) {
		t.Fatalf("len(Columns) = %d, want %d", len(s.Columns), len(wantKeys))
	}
	for i, key := range wantKeys {
		if s.Columns[i].Key != key {
			t.Errorf("Columns[%d].Key = %q, want %q", i, s.Columns[i].Key, key)
		}
	}
	if s.Columns[1].Name != "Full Name" {
		t.Errorf("Columns[1].Name = %q, want Full Name", s.Columns[1].Name)
	}
	if s.Columns[0].Width != column.Px(6) {
		t.Errorf("Columns[0].Width = %v, want 6px", s.Columns[0].Width)
	}
	if s.Columns[2].Width.IsSet() {
		t.Errorf("Columns[2].Width = %v, want unset", s.Columns[2].Width)
	}

	if len(s.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(s.Rows))
	}
	first := s.Rows[0].(*source.Row)
	tests := []struct {
		key  string
		want any
	}{
		{"id", 1},
		{"full_name", "Ada"},
		{"amount", 1234.5},
		{"active", true},
	}
	for _, tt := range tests {
		if got := first.Field(tt.key); got != tt.want {
			t.Errorf("Field(%s) = %v (%T), want %v", tt.key, got, got, tt.want)
		}
	}

	second := s.Rows[1].(*source.Row)
	if got := second.Field("amount"); got != nil {
		t.Errorf("covered cell = %v, want nil", got)
	}
}

func TestMergedCellsSpan(t *testing.T) {
	s, err := Open(writeWorkbook(t), Options{HeaderRow: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Span(1, 1) != 2 {
		t.Errorf("Span(1, 1) = %d, want 2", s.Span(1, 1))
	}

	name := s.Columns[1]
	if name.ColSpan == nil {
		t.Fatal("full_name should declare a span")
	}
	if s.Columns[0].ColSpan != nil {
		t.Error("id should not declare a span")
	}
	if got := name.ColSpan(column.CellContext{Kind: column.CellRow, Row: s.Rows[1]}); got != 2 {
		t.Errorf("ColSpan(row 1) = %d, want 2", got)
	}
	if got := name.ColSpan(column.CellContext{Kind: column.CellRow, Row: s.Rows[0]}); got != 0 {
		t.Errorf("ColSpan(row 0) = %d, want 0", got)
	}

	l := column.Compute(s.Columns, nil, nil, column.Defaults{})
	c, _ := l.ByKey("full_name")
	if got := column.GetColSpan(c, l.LastFrozenIndex, column.CellContext{Kind: column.CellRow, Row: s.Rows[1]}); got != 2 {
		t.Errorf("GetColSpan = %d, want 2", got)
	}
}

func TestOpenWithoutHeader(t *testing.T) {
	s, err := Open(writeWorkbook(t), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Columns[0].Key != "a" || s.Columns[0].Name != "A" {
		t.Errorf("Columns[0] = %q/%q, want a/A", s.Columns[0].Key, s.Columns[0].Name)
	}
	if len(s.Rows) != 3 {
		t.Errorf("len(Rows) = %d, want 3", len(s.Rows))
	}
	if got := s.Rows[0].(*source.Row).Field("b"); got != "Full Name" {
		t.Errorf("Field(b) = %v, want Full Name", got)
	}
	if s.Span(2, 1) != 2 {
		t.Errorf("Span(2, 1) = %d, want 2", s.Span(2, 1))
	}
}

func TestOpenSheetByName(t *testing.T) {
	path := writeWorkbook(t)
	s, err := Open(path, Options{Sheet: "Other"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.Rows) != 1 || s.Rows[0].(*source.Row).Field("a") != "x" {
		t.Errorf("Rows = %v", s.Rows)
	}

	if _, err := Open(path, Options{Sheet: "Missing"}); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestColumnKeys(t *testing.T) {
	got := columnKeys([]string{"Name", "name", "", "select-row", "Total (USD)"}, 6)
	want := []string{"name", "name_2", "c", "select_row", "total_usd", "f"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
