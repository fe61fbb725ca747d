package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/gridstorm/internal/grid/column"
)

// Config is the complete gridstorm configuration.
type Config struct {
	Grid    GridConfig        `toml:"grid"`
	Columns []ColumnConfig    `toml:"columns"`
	Keys    map[string]string `toml:"keys"`
	Source  SourceConfig      `toml:"source"`
	Script  ScriptConfig      `toml:"script"`
}

// GridConfig holds the grid-wide options. Sizes are in terminal cells.
type GridConfig struct {
	RowHeight        int      `toml:"row_height"`
	HeaderRowHeight  int      `toml:"header_row_height"`
	SummaryRowHeight int      `toml:"summary_row_height"`
	DefaultWidth     string   `toml:"default_width"`
	MinColumnWidth   int      `toml:"min_column_width"`
	MaxColumnWidth   int      `toml:"max_column_width"`
	Resizable        bool     `toml:"resizable"`
	Sortable         bool     `toml:"sortable"`
	RTL              bool     `toml:"rtl"`
	Virtualize       bool     `toml:"virtualize"`
	CellPadding      int      `toml:"cell_padding"`
	EastAsianWidth   bool     `toml:"east_asian_width"`
	GroupBy          []string `toml:"group_by"`
	SelectColumn     bool     `toml:"select_column"`
	Summary          bool     `toml:"summary"`
}

// ColumnConfig describes one column.
type ColumnConfig struct {
	Key                 string `toml:"key"`
	Name                string `toml:"name"`
	Width               string `toml:"width"`
	MinWidth            int    `toml:"min_width"`
	MaxWidth            int    `toml:"max_width"`
	Frozen              bool   `toml:"frozen"`
	Resizable           *bool  `toml:"resizable"`
	Sortable            *bool  `toml:"sortable"`
	SortDescendingFirst bool   `toml:"sort_descending_first"`
	Editable            bool   `toml:"editable"`
	// CommitOnOutsideClick defaults to true.
	CommitOnOutsideClick *bool `toml:"commit_on_outside_click"`
	// Format is "", "comma" or "bytes".
	Format string `toml:"format"`
}

// SourceConfig names the file the rows are read from. Files ending in
// .json, .jsonl or .ndjson are read as JSON records, anything else as a
// workbook.
type SourceConfig struct {
	Path      string `toml:"path"`
	Sheet     string `toml:"sheet"`
	HeaderRow bool   `toml:"header_row"`
	// Records is the gjson path of the record array in a JSON source.
	Records string `toml:"records"`
	// Fields is a glob selecting the fields of a JSON source.
	Fields string `toml:"fields"`
	// Export is the JSON file the export action writes.
	Export string `toml:"export"`
}

// ScriptConfig names the Lua file providing column capabilities.
type ScriptConfig struct {
	Path string `toml:"path"`
}

// Column formats.
const (
	FormatRaw   = ""
	FormatComma = "comma"
	FormatBytes = "bytes"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			RowHeight:      1,
			MinColumnWidth: 4,
			DefaultWidth:   "auto",
			Resizable:      true,
			Sortable:       true,
			Virtualize:     true,
			CellPadding:    2,
		},
		Keys:   DefaultKeys(),
		Source: SourceConfig{HeaderRow: true},
	}
}

// Load reads the configuration at path on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse("<reader>", data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
// source names the data in errors.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, newParseError(source, err)
	}
	// User bindings replace individual defaults only.
	keys := DefaultKeys()
	for action, spec := range cfg.Keys {
		keys[action] = spec
	}
	cfg.Keys = keys
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newParseError converts a go-toml error into a ParseError.
func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		pe.Line, pe.Column = decErr.Position()
		return pe
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
		first := strictErr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown key " + strings.Join(first.Key(), ".")
	}
	return pe
}

// Validate checks the configuration and returns every failure at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	g := c.Grid
	if g.RowHeight <= 0 {
		add("grid.row_height", "must be positive", g.RowHeight)
	}
	if g.HeaderRowHeight < 0 {
		add("grid.header_row_height", "must not be negative", g.HeaderRowHeight)
	}
	if g.SummaryRowHeight < 0 {
		add("grid.summary_row_height", "must not be negative", g.SummaryRowHeight)
	}
	if g.MinColumnWidth < 0 {
		add("grid.min_column_width", "must not be negative", g.MinColumnWidth)
	}
	if g.MaxColumnWidth < 0 {
		add("grid.max_column_width", "must not be negative", g.MaxColumnWidth)
	}
	if g.CellPadding < 0 {
		add("grid.cell_padding", "must not be negative", g.CellPadding)
	}
	if _, err := column.ParseWidth(g.DefaultWidth); err != nil {
		add("grid.default_width", err.Error(), g.DefaultWidth)
	}

	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		path := fmt.Sprintf("columns[%d]", i)
		switch {
		case col.Key == "":
			add(path+".key", "is required", col.Key)
		case col.Key == column.SelectColumnKey:
			add(path+".key", "is reserved", col.Key)
		case seen[col.Key]:
			add(path+".key", "is duplicated", col.Key)
		}
		seen[col.Key] = true
		if _, err := column.ParseWidth(col.Width); err != nil {
			add(path+".width", err.Error(), col.Width)
		}
		if col.MinWidth < 0 {
			add(path+".min_width", "must not be negative", col.MinWidth)
		}
		if col.MaxWidth < 0 {
			add(path+".max_width", "must not be negative", col.MaxWidth)
		}
		switch col.Format {
		case FormatRaw, FormatComma, FormatBytes:
		default:
			add(path+".format", "must be comma or bytes", col.Format)
		}
	}
	if len(c.Columns) > 0 {
		for _, key := range g.GroupBy {
			if !seen[key] {
				add("grid.group_by", "names no column", key)
			}
		}
	}

	for action, spec := range c.Keys {
		if !IsAction(action) {
			add("keys."+action, ErrUnknownAction.Error(), spec)
			continue
		}
		if spec == "" {
			continue
		}
		if _, err := parseBinding(spec); err != nil {
			add("keys."+action, err.Error(), spec)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Defaults returns the column defaults described by the grid section.
func (c *Config) Defaults() column.Defaults {
	w, _ := column.ParseWidth(c.Grid.DefaultWidth)
	d := column.Defaults{
		Width:     w,
		Sortable:  c.Grid.Sortable,
		Resizable: c.Grid.Resizable,
		MinWidth:  column.Ptr(c.Grid.MinColumnWidth),
	}
	if c.Grid.MaxColumnWidth > 0 {
		d.MaxWidth = column.Ptr(c.Grid.MaxColumnWidth)
	}
	return d
}

// Column returns the configured column with key.
func (c *Config) Column(key string) (ColumnConfig, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return ColumnConfig{}, false
}

// Def converts the column into a raw definition. Renderers are attached by
// the host.
func (cc ColumnConfig) Def() (column.Def, error) {
	w, err := column.ParseWidth(cc.Width)
	if err != nil {
		return column.Def{}, fmt.Errorf("column %s: %w", cc.Key, err)
	}
	d := column.Def{
		Key:                 cc.Key,
		Name:                cc.Name,
		Width:               w,
		Frozen:              cc.Frozen,
		Resizable:           cc.Resizable,
		Sortable:            cc.Sortable,
		SortDescendingFirst: cc.SortDescendingFirst,
		EditableFlag:        column.Ptr(cc.Editable),
		EditorOptions: column.EditorOptions{
			CommitOnOutsideClick: cc.CommitOnOutsideClick,
		},
	}
	if d.Name == "" {
		d.Name = cc.Key
	}
	if cc.MinWidth > 0 {
		d.MinWidth = column.Ptr(cc.MinWidth)
	}
	if cc.MaxWidth > 0 {
		d.MaxWidth = column.Ptr(cc.MaxWidth)
	}
	return d, nil
}

// Defs converts every configured column.
func (c *Config) Defs() ([]column.Def, error) {
	defs := make([]column.Def, 0, len(c.Columns))
	for _, cc := range c.Columns {
		d, err := cc.Def()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
