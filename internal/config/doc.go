// Package config loads gridstorm configuration from TOML files.
//
// A configuration file describes the grid options, the column definitions,
// the application key bindings and the optional data source and script:
//
//	[grid]
//	row_height = 1
//	min_column_width = 4
//	group_by = ["region"]
//
//	[[columns]]
//	key = "id"
//	width = "6"
//	frozen = true
//
//	[[columns]]
//	key = "name"
//	width = "max-content"
//	editable = true
//
//	[keys]
//	quit = "Ctrl+Q"
//	sort = "Ctrl+S"
//
// Missing settings keep their defaults. Unknown keys are reported as a
// ParseError with the position of the offending line.
//
// # Live Reload
//
// Watcher observes the configuration file with fsnotify and posts a Reload
// on its channel after the file settles. The host applies the new value on
// its own goroutine.
package config
