// Package resize reconciles interactive column resizing and intrinsic
// width measurement with the column layout.
//
// Resizing is two-phase. The controller first writes a provisional track
// list to the layout Surface so the new width shows up immediately, then
// reads back the rendered widths through the Measurer and commits the
// resized and measured width tables to the Store in a single update.
package resize
