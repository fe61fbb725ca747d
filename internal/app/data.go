package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/source"
)

// rowKey returns the stable key of a sheet row.
func rowKey(row any) any {
	if r, ok := row.(*source.Row); ok {
		return r.Index
	}
	return row
}

// setField returns a copy of row with key set to value.
func setField(row any, key string, value any) (any, error) {
	switch r := row.(type) {
	case *source.Row:
		return r.With(key, value), nil
	case map[string]any:
		out := make(map[string]any, len(r)+1)
		for k, v := range r {
			out[k] = v
		}
		out[key] = value
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotEditable, row)
}

// parseLike converts edited text to the type of the value it replaces.
// Text that does not parse is kept as a string.
func parseLike(text string, prev any) any {
	clean := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	switch prev.(type) {
	case int, int64:
		if n, err := strconv.Atoi(clean); err == nil {
			return n
		}
	case float64, float32:
		if f, err := strconv.ParseFloat(clean, 64); err == nil {
			return f
		}
	case bool:
		if b, err := strconv.ParseBool(clean); err == nil {
			return b
		}
	}
	return text
}

// formatValue renders v in the configured format.
func formatValue(format string, v any) any {
	switch format {
	case config.FormatComma:
		switch n := v.(type) {
		case int:
			return humanize.Comma(int64(n))
		case int64:
			return humanize.Comma(n)
		case float64:
			return humanize.Commaf(n)
		}
	case config.FormatBytes:
		switch n := v.(type) {
		case int:
			if n >= 0 {
				return humanize.Bytes(uint64(n))
			}
		case int64:
			if n >= 0 {
				return humanize.Bytes(uint64(n))
			}
		case float64:
			if n >= 0 {
				return humanize.Bytes(uint64(n))
			}
		}
	}
	return v
}

// withFormat wraps the value accessor of d with the column format.
func withFormat(d column.Def, format string) column.Def {
	if format == config.FormatRaw {
		return d
	}
	prev := d.Value
	key := d.Key
	d.Value = func(row any) any {
		var v any
		if prev != nil {
			v = prev(row)
		} else {
			v, _ = column.FieldValue(row, key)
		}
		return formatValue(format, v)
	}
	return d
}

// numeric reports the value of v as a float when it is a number.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// summaryRow totals every column whose values are all numbers. The first
// column reports the row count instead.
func summaryRow(rows []any, defs []column.Def) map[string]any {
	out := make(map[string]any, len(defs))
	for i, d := range defs {
		if d.Key == column.SelectColumnKey {
			continue
		}
		if i == 0 || (i == 1 && defs[0].Key == column.SelectColumnKey) {
			out[d.Key] = humanize.Comma(int64(len(rows))) + " rows"
			continue
		}
		var sum float64
		allInts, seen := true, false
		ok := true
		for _, row := range rows {
			v, _ := column.FieldValue(row, d.Key)
			if v == nil {
				continue
			}
			n, isNum := numeric(v)
			if !isNum {
				ok = false
				break
			}
			if _, isInt := v.(int); !isInt {
				allInts = false
			}
			sum += n
			seen = true
		}
		if !ok || !seen {
			continue
		}
		if allInts {
			out[d.Key] = int(sum)
		} else {
			out[d.Key] = sum
		}
	}
	return out
}

// renderSummary renders a cell of the summary row in the column format.
func renderSummary(format string) func(column.CellProps) any {
	return func(p column.CellProps) any {
		v, _ := column.FieldValue(p.Row, p.Column.Key)
		if v == nil {
			return ""
		}
		return fmt.Sprint(formatValue(format, v))
	}
}
