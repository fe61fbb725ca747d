// Package script provides Lua-backed column capabilities.
//
// A script declares a global table named columns, keyed by column key. Each
// entry may define any of the capability functions:
//
//	columns = {
//	  name = {
//	    colspan  = function(kind, row) if kind == "ROW" and row.id == 1 then return 2 end end,
//	    editable = function(row) return row.city ~= "Oslo" end,
//	    format   = function(value, row) return string.upper(value) end,
//	    class    = function(row) if row.amount < 0 then return "negative" end end,
//	  },
//	}
//
// Rows are exposed to Lua as read-only proxies; indexing a proxy reads the
// field the grid would display. The grid module offers comma, bytes and
// width helpers.
//
// A capability that fails at runtime degrades to the grid default (no span,
// editable, raw value, no class) and its first error is kept for Errors.
//
// gopher-lua states are not goroutine-safe. Engine serializes every call.
package script
