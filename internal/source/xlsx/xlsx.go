package xlsx

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/source"
)

// ErrSheetNotFound is returned when the requested sheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrEmptyWorkbook is returned when the workbook has no sheets.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// headerRow is the span table index of the header row.
const headerRow = -1

// Options controls how a sheet is read.
type Options struct {
	// Sheet names the sheet to read. Empty means the first sheet.
	Sheet string
	// HeaderRow treats the first sheet row as column names.
	HeaderRow bool
}

// Sheet is a worksheet converted for the grid.
type Sheet struct {
	Name    string
	Columns []column.Def
	Rows    []any

	// spans maps [row, col] of a merge anchor to its width in columns.
	spans map[[2]int]int
}

// Open reads the workbook at path.
func Open(path string, opts Options) (*Sheet, error) {
	wb, err := spreadsheet.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer wb.Close()
	return convert(wb, opts)
}

// Read reads a workbook from r.
func Read(r io.ReaderAt, size int64, opts Options) (*Sheet, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	defer wb.Close()
	return convert(wb, opts)
}

func convert(wb *spreadsheet.Workbook, opts Options) (*Sheet, error) {
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	sheet := sheets[0]
	if opts.Sheet != "" {
		found := false
		for _, s := range sheets {
			if s.Name() == opts.Sheet {
				sheet, found = s, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, opts.Sheet)
		}
	}

	rows := sheet.Rows()
	maxCols := 0
	for _, row := range rows {
		for _, cell := range row.Cells() {
			if idx, ok := cellIndex(cell); ok && idx+1 > maxCols {
				maxCols = idx + 1
			}
		}
	}

	firstData := 0
	var header []string
	if opts.HeaderRow && len(rows) > 0 {
		header = make([]string, maxCols)
		for _, cell := range rows[0].Cells() {
			if idx, ok := cellIndex(cell); ok {
				header[idx] = strings.TrimSpace(cell.GetFormattedValue())
			}
		}
		firstData = int(rows[0].RowNumber())
	}

	s := &Sheet{Name: sheet.Name(), spans: make(map[[2]int]int)}
	keys := columnKeys(header, maxCols)
	for c := 0; c < maxCols; c++ {
		d := column.Def{Key: keys[c], Name: reference.IndexToColumn(uint32(c))}
		if c < len(header) && header[c] != "" {
			d.Name = header[c]
		}
		colObj := sheet.Column(uint32(c + 1))
		if x := colObj.X(); x != nil && x.CustomWidthAttr != nil && *x.CustomWidthAttr && x.WidthAttr != nil {
			d.Width = column.Px(int(math.Round(*x.WidthAttr)))
		}
		s.Columns = append(s.Columns, d)
	}

	// Row numbers are one-based; data row i sits on sheet row firstData+i+1.
	// Sparse sheets keep their gaps as empty rows.
	skip := s.readMerges(sheet, firstData)
	for _, row := range rows {
		num := int(row.RowNumber())
		if num <= firstData {
			continue
		}
		idx := num - firstData - 1
		for len(s.Rows) < idx {
			s.Rows = append(s.Rows, source.NewRow(len(s.Rows), nil))
		}
		values := make(map[string]any, maxCols)
		for _, cell := range row.Cells() {
			c, ok := cellIndex(cell)
			if !ok || skip[[2]int{idx, c}] {
				continue
			}
			values[keys[c]] = cellValue(cell)
		}
		s.Rows = append(s.Rows, source.NewRow(idx, values))
	}

	for c := range s.Columns {
		if s.hasSpans(c) {
			s.Columns[c].ColSpan = s.colSpan(c)
		}
	}
	return s, nil
}

// readMerges fills the span table and returns the covered cells.
func (s *Sheet) readMerges(sheet spreadsheet.Sheet, firstData int) map[[2]int]bool {
	skip := make(map[[2]int]bool)
	x := sheet.X()
	if x.MergeCells == nil {
		return skip
	}
	for _, mc := range x.MergeCells.MergeCell {
		from, to, err := reference.ParseRangeReference(mc.RefAttr)
		if err != nil {
			continue
		}
		fromCol, toCol := int(from.ColumnIdx), int(to.ColumnIdx)
		if toCol <= fromCol {
			continue
		}
		row := int(from.RowIdx) - firstData - 1
		if row < headerRow {
			continue
		}
		s.spans[[2]int{row, fromCol}] = toCol - fromCol + 1
		for c := fromCol + 1; c <= toCol; c++ {
			skip[[2]int{row, c}] = true
		}
	}
	return skip
}

func (s *Sheet) hasSpans(col int) bool {
	for k := range s.spans {
		if k[1] == col {
			return true
		}
	}
	return false
}

func (s *Sheet) colSpan(col int) func(column.CellContext) int {
	return func(ctx column.CellContext) int {
		switch ctx.Kind {
		case column.CellHeader:
			return s.spans[[2]int{headerRow, col}]
		case column.CellRow:
			if r, ok := ctx.Row.(*source.Row); ok {
				return s.spans[[2]int{r.Index, col}]
			}
		}
		return 0
	}
}

// Span returns the merge width anchored at data row and column index, or 0.
func (s *Sheet) Span(row, col int) int {
	return s.spans[[2]int{row, col}]
}

func cellIndex(cell spreadsheet.Cell) (int, bool) {
	name, err := cell.Column()
	if err != nil {
		return 0, false
	}
	return int(reference.ColumnToIndex(name)), true
}

// cellValue returns numbers as int or float64, booleans as bool and
// everything else as the formatted text.
func cellValue(cell spreadsheet.Cell) any {
	if cell.IsBool() {
		if b, err := cell.GetValueAsBool(); err == nil {
			return b
		}
	}
	if cell.IsNumber() {
		if f, err := cell.GetValueAsNumber(); err == nil {
			if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64/2 {
				return int(f)
			}
			return f
		}
	}
	return cell.GetFormattedValue()
}

// columnKeys derives unique keys from the header text, falling back to the
// column letter.
func columnKeys(header []string, n int) []string {
	keys := make([]string, n)
	seen := make(map[string]int, n)
	for c := 0; c < n; c++ {
		key := ""
		if c < len(header) {
			key = keyOf(header[c])
		}
		if key == "" || key == column.SelectColumnKey {
			key = strings.ToLower(reference.IndexToColumn(uint32(c)))
		}
		if seen[key] > 0 {
			key += "_" + strconv.Itoa(seen[key]+1)
		}
		seen[key]++
		keys[c] = key
	}
	return keys
}

func keyOf(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
