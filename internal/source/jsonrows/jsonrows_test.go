package jsonrows

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/gridstorm/internal/source"
)

const people = `{
  "meta": {"count": 3},
  "people": [
    {"id": 1, "name": "Ada", "score": 9.5, "active": true},
    {"id": 2, "name": "Grace", "tags": ["a", "b"], "active": false},
    {"id": 3, "name": null, "extra.key": "x"}
  ]
}`

func keysOf(t *Table) []string {
	keys := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}
	return keys
}

func TestParse(t *testing.T) {
	tbl, err := Parse([]byte(people), Options{Path: "people"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"id", "name", "score", "active", "tags", "extra.key"}
	if got := keysOf(tbl); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(tbl.Rows))
	}

	tests := []struct {
		row  int
		key  string
		want any
	}{
		{0, "id", 1},
		{0, "score", 9.5},
		{0, "active", true},
		{1, "active", false},
		{1, "tags", `["a", "b"]`},
		{2, "name", nil},
		{2, "extra.key", "x"},
	}
	for _, tt := range tests {
		r := tbl.Rows[tt.row].(*source.Row)
		if got := r.Field(tt.key); got != tt.want {
			t.Errorf("row %d %s = %#v, want %#v", tt.row, tt.key, got, tt.want)
		}
		if r.Index != tt.row {
			t.Errorf("Index = %d, want %d", r.Index, tt.row)
		}
	}
}

func TestParseInclude(t *testing.T) {
	tbl, err := Parse([]byte(people), Options{Path: "people", Include: "?a*"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := keysOf(tbl); !reflect.DeepEqual(got, []string{"name", "tags"}) {
		t.Errorf("keys = %v, want [name tags]", got)
	}
}

func TestParseLines(t *testing.T) {
	data := "{\"a\": 1}\n{\"b\": \"x\"}\n"
	tbl, err := Parse([]byte(data), Options{Lines: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(tbl.Rows))
	}
	if got := keysOf(tbl); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("keys = %v, want [a b]", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts Options
		want error
	}{
		{"malformed", `[{"a": 1}`, Options{}, ErrInvalidJSON},
		{"object", `{"a": 1}`, Options{}, ErrNotArray},
		{"missing path", people, Options{Path: "nobody"}, ErrNotArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNonObjectRecords(t *testing.T) {
	tbl, err := Parse([]byte(`[1, {"a": 2}]`), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0].(*source.Row).Has("a") {
		t.Errorf("Rows = %v, want an empty first row", tbl.Rows)
	}
}

func TestEncode(t *testing.T) {
	rows := []any{
		source.NewRow(0, map[string]any{"id": 1, "extra.key": "x", "ok": true}),
		source.NewRow(1, map[string]any{"id": 2}),
		map[string]any{"id": 3, "score": 1.5},
	}
	data, err := Encode(rows, []string{"id", "extra.key", "ok", "score"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	doc := gjson.ParseBytes(data)
	if n := doc.Get("#").Int(); n != 3 {
		t.Fatalf("records = %d, want 3\n%s", n, data)
	}
	tests := []struct {
		path string
		want string
	}{
		{"0.id", "1"},
		{`0.extra\.key`, "x"},
		{"0.ok", "true"},
		{"2.score", "1.5"},
	}
	for _, tt := range tests {
		if got := doc.Get(tt.path).String(); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.path, got, tt.want)
		}
	}
	if doc.Get("1.ok").Exists() {
		t.Error("missing fields should be omitted")
	}
}

func TestSaveOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	rows := []any{source.NewRow(0, map[string]any{"n": 10, "s": "a"})}
	if err := Save(path, rows, []string{"n", "s"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	tbl, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := tbl.Rows[0].(*source.Row)
	if r.Field("n") != 10 || r.Field("s") != "a" {
		t.Errorf("row = %v, %v, want 10, a", r.Field("n"), r.Field("s"))
	}
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		path      string
		ok, lines bool
	}{
		{"a.json", true, false},
		{"a.JSONL", true, true},
		{"a.ndjson", true, true},
		{"a.xlsx", false, false},
	}
	for _, tt := range tests {
		ok, lines := IsJSON(tt.path)
		if ok != tt.ok || lines != tt.lines {
			t.Errorf("IsJSON(%q) = %v, %v, want %v, %v", tt.path, ok, lines, tt.ok, tt.lines)
		}
	}
}
