package jsonrows

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/gridstorm/internal/grid/column"
	"github.com/dshills/gridstorm/internal/source"
)

// Errors returned while reading records.
var (
	// ErrInvalidJSON is returned for malformed input.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNotArray is returned when the record path does not name an array.
	ErrNotArray = errors.New("records are not an array")
)

// Options controls how records are read.
type Options struct {
	// Path is the gjson path of the record array. Empty means the document.
	Path string
	// Include is a glob matched against field names. Empty keeps every field.
	Include string
	// Lines reads one record per line.
	Lines bool
}

// Table holds the records converted for the grid.
type Table struct {
	Columns []column.Def
	Rows    []any
}

// IsJSON reports whether path names a file this package reads, and whether
// it holds JSON Lines.
func IsJSON(path string) (ok, lines bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return true, false
	case ".jsonl", ".ndjson":
		return true, true
	}
	return false, false
}

// Open reads the file at path.
func Open(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse converts data into a table.
func Parse(data []byte, opts Options) (*Table, error) {
	b := newBuilder(opts.Include)

	if opts.Lines {
		var bad int
		gjson.ForEachLine(string(data), func(line gjson.Result) bool {
			if !gjson.Valid(line.Raw) {
				bad++
				return false
			}
			b.add(line)
			return true
		})
		if bad > 0 {
			return nil, fmt.Errorf("%w: record %d", ErrInvalidJSON, len(b.rows)+1)
		}
		return b.table(), nil
	}

	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	records := gjson.ParseBytes(data)
	if opts.Path != "" {
		records = records.Get(opts.Path)
	}
	if !records.IsArray() {
		return nil, ErrNotArray
	}
	records.ForEach(func(_, rec gjson.Result) bool {
		b.add(rec)
		return true
	})
	return b.table(), nil
}

type builder struct {
	include string
	keys    []string
	seen    map[string]bool
	rows    []any
}

func newBuilder(include string) *builder {
	return &builder{include: include, seen: make(map[string]bool)}
}

func (b *builder) add(rec gjson.Result) {
	values := make(map[string]any)
	if rec.IsObject() {
		rec.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if key == "" || key == column.SelectColumnKey {
				return true
			}
			if b.include != "" && !match.Match(key, b.include) {
				return true
			}
			if !b.seen[key] {
				b.seen[key] = true
				b.keys = append(b.keys, key)
			}
			if val := value(v); val != nil {
				values[key] = val
			}
			return true
		})
	}
	b.rows = append(b.rows, source.NewRow(len(b.rows), values))
}

func (b *builder) table() *Table {
	t := &Table{Rows: b.rows}
	for _, key := range b.keys {
		t.Columns = append(t.Columns, column.Def{Key: key, Name: key})
	}
	return t
}

// value returns integers as int, other numbers as float64, booleans as bool,
// strings as string and nested values as their raw text.
func value(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		return v.Bool()
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") {
			return int(v.Int())
		}
		return v.Num
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}

// Encode writes rows as an indented JSON array of objects holding keys.
// Missing fields are omitted.
func Encode(rows []any, keys []string) ([]byte, error) {
	out := []byte("[]")
	for i, row := range rows {
		rec := []byte("{}")
		for _, key := range keys {
			v, ok := column.FieldValue(row, key)
			if !ok || v == nil {
				continue
			}
			var err error
			if rec, err = sjson.SetBytes(rec, escapeKey(key), v); err != nil {
				return nil, fmt.Errorf("row %d field %s: %w", i, key, err)
			}
		}
		var err error
		if out, err = sjson.SetRawBytes(out, "-1", rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: "  "}), nil
}

// Save encodes rows into the file at path.
func Save(path string, rows []any, keys []string) error {
	data, err := Encode(rows, keys)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// escapeKey quotes the characters gjson paths treat specially.
func escapeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '\\', ':':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
