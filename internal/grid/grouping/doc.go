// Package grouping projects a flat row collection into a hierarchy of
// group rows and flattens the expanded part of that hierarchy into a single
// addressable row sequence.
//
// Build is run when the rows or the group-by keys change; Flatten is run
// when the expanded set changes. Both are pure. Group identity comes from
// the chain of group keys (joined with IDSeparator), so the expanded set
// survives rebuilds.
package grouping
