// Package jsonrows reads JSON records into grid columns and rows and writes
// rows back as a JSON array.
//
// The records are the elements of an array, either the document itself or
// the array at a gjson path. JSON Lines input holds one record per line.
// Columns follow the order in which keys first appear. Nested objects and
// arrays are kept as their raw JSON text.
package jsonrows
